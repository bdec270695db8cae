package service

import (
	"strings"
	"time"

	"github.com/Xushengqwer/blog_service/models/dto"
	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/myErrors"
	"github.com/Xushengqwer/blog_service/utils"
)

// resolveSlug 确定文章最终使用的 slug。
// - explicit 非空时校验格式后直接使用
// - 否则由标题派生；标题全是特殊字符导致派生结果为空时视为无效
func resolveSlug(explicit *string, title string) (string, error) {
	if explicit != nil && *explicit != "" {
		if !utils.IsValidSlug(*explicit) {
			return "", myErrors.ErrInvalidSlug
		}
		return *explicit, nil
	}
	slug := utils.Slugify(title)
	if slug == "" || !utils.IsValidSlug(slug) {
		return "", myErrors.ErrInvalidSlug
	}
	return slug, nil
}

// normalizeTagNames 清洗标签名列表: 去首尾空白、丢弃空串、保序去重。
// 重复标签名会导致关联表主键冲突，必须在入库前去掉。
func normalizeTagNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}

// resolveMutationSlug 确定更新后文章应使用的 slug。
// 优先级: 显式提供的新 slug > 标题变更时由新标题派生 > 保持现值。
// 返回值的 changed 为 true 表示需要落库并做唯一性检查（检查由调用方完成）。
func resolveMutationSlug(post *entities.Post, req *dto.MutatePostRequest) (string, bool, error) {
	if req.Slug != nil && *req.Slug != "" {
		if !utils.IsValidSlug(*req.Slug) {
			return "", false, myErrors.ErrInvalidSlug
		}
		return *req.Slug, *req.Slug != post.Slug, nil
	}

	if req.Title != nil && *req.Title != post.Title {
		derived := utils.Slugify(*req.Title)
		if derived == "" || !utils.IsValidSlug(derived) {
			return "", false, myErrors.ErrInvalidSlug
		}
		return derived, derived != post.Slug, nil
	}

	return post.Slug, false, nil
}

// mutationPersistsRow 判断本次更新是否需要写 posts 行。
// 标签整体替换只改关联表，但 updated_at 的语义是任何成功的更新都要刷新，
// 所以只带标签、没有字段级变更的请求同样要让 UpdatePostFields 落一次时间戳。
func mutationPersistsRow(updates map[string]interface{}, req *dto.MutatePostRequest) bool {
	return len(updates) > 0 || req.Tags != nil
}

// buildMutationUpdates 根据更新请求与文章当前状态推导出需要落库的字段集合。
// slug 不在这里处理，它需要唯一性检查，由服务层通过 resolveMutationSlug 单独推导。
// 返回值:
//   - updates: 交给 UpdatePostFields 的字段 map，空 map 表示没有字段级变更
//   - becamePublished: 本次请求把文章从草稿切换为已发布
//
// 约定:
//   - 正文变更时联动重算阅读时长
//   - 草稿→发布 写入当前时间为发布时间；发布→草稿 清空发布时间；
//     重复发布不刷新发布时间
func buildMutationUpdates(post *entities.Post, req *dto.MutatePostRequest, now time.Time) (map[string]interface{}, bool) {
	updates := make(map[string]interface{})

	if req.Title != nil && *req.Title != post.Title {
		updates["title"] = *req.Title
	}
	if req.Excerpt != nil && *req.Excerpt != post.Excerpt {
		updates["excerpt"] = *req.Excerpt
	}
	if req.Content != nil && *req.Content != post.Content {
		updates["content"] = *req.Content
		updates["read_time_min"] = utils.CalculateReadTime(*req.Content)
	}
	if req.CoverImage != nil {
		if *req.CoverImage == "" {
			// 空串表示清除封面
			updates["cover_image"] = nil
		} else if post.CoverImage == nil || *post.CoverImage != *req.CoverImage {
			updates["cover_image"] = *req.CoverImage
		}
	}
	becamePublished := false
	if req.Published != nil && *req.Published != post.Published {
		updates["published"] = *req.Published
		if *req.Published {
			updates["published_at"] = now
			becamePublished = true
		} else {
			updates["published_at"] = nil
		}
	}

	return updates, becamePublished
}
