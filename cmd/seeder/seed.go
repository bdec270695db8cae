package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Xushengqwer/go-common/core"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/models/dto"
	"github.com/Xushengqwer/blog_service/service"
)

// 候选标签池，从中随机取 1~3 个，让标签计数接口有可观测的数据
var seedTagPool = []string{
	"go", "mysql", "redis", "kafka", "docker", "kubernetes",
	"microservices", "testing", "performance", "devops",
}

// Seed 通过服务层批量创建测试文章，走与线上完全相同的校验和事务路径
func Seed(ctx context.Context, postSvc service.PostService, logger *core.ZapLogger, numPosts int) {
	logger.Info("开始填充测试数据 (通过服务层)...", zap.Int("数量", numPosts))

	var wg sync.WaitGroup
	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for i := 0; i < numPosts; i++ {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(itemIndex int) {
			defer wg.Done()
			defer func() { <-semaphore }()

			authorID := uuid.New().String()

			tagCount := gofakeit.Number(1, 3)
			tags := make([]string, 0, tagCount)
			for len(tags) < tagCount {
				candidate := seedTagPool[gofakeit.Number(0, len(seedTagPool)-1)]
				duplicated := false
				for _, t := range tags {
					if t == candidate {
						duplicated = true
						break
					}
				}
				if !duplicated {
					tags = append(tags, candidate)
				}
			}

			title := strings.TrimSuffix(gofakeit.Sentence(gofakeit.Number(4, 10)), ".")
			cover := gofakeit.ImageURL(1200, 630)

			createReq := &dto.CreatePostRequest{
				Title:      title,
				Content:    gofakeit.Paragraph(4, 6, 30, "\n\n"),
				Excerpt:    gofakeit.Sentence(gofakeit.Number(8, 20)),
				CoverImage: &cover,
				Published:  gofakeit.Bool(),
				Tags:       tags,
			}

			resp, err := postSvc.CreatePost(ctx, authorID, createReq)
			if err != nil {
				logger.Error(fmt.Sprintf("创建文章 %d/%d 失败", itemIndex+1, numPosts),
					zap.Error(err),
					zap.String("title", createReq.Title),
					zap.String("author_id", authorID))
			} else {
				logger.Info(fmt.Sprintf("成功创建文章 %d/%d", itemIndex+1, numPosts),
					zap.Uint64("post_id", resp.ID),
					zap.String("slug", resp.Slug))
			}
		}(i)
	}

	wg.Wait()
	logger.Info("测试数据填充完毕 (通过服务层)。")
}
