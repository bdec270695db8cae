package myErrors

import "errors"

// ErrSlugConflict 表示创建或更新文章时 slug 已被其他文章占用。
// 控制器据此返回 409，前端可以针对性地提示"换一个 slug"，而不是弹通用错误。
var ErrSlugConflict = errors.New("post: slug already in use (conflict)")

// ErrForbidden 表示调用者不是资源的作者，无权修改或删除。
// 与"未找到"严格区分，避免把权限问题伪装成数据不存在。
var ErrForbidden = errors.New("post: caller is not the author (forbidden)")

// ErrInvalidSlug 表示显式提供的 slug 不符合格式约定 (小写字母数字 + 单个连字符分隔)。
var ErrInvalidSlug = errors.New("post: slug has invalid format")

// ErrInvalidSearchParams 表示搜索参数未通过校验（搜索词过长、limit 越界）。
var ErrInvalidSearchParams = errors.New("post: invalid search params")

// ErrEmailConflict 表示订阅邮箱已存在。
var ErrEmailConflict = errors.New("newsletter: email already subscribed (conflict)")
