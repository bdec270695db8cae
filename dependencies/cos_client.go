package dependencies

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Xushengqwer/go-common/core"
	"github.com/tencentyun/cos-go-sdk-v5"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/config"
)

// COSClientInterface 定义了封面图存储客户端需要实现的方法。
// 博客只存封面图这一类对象，上传返回公开访问 URL，删除用于替换封面时清理旧图。
type COSClientInterface interface {
	GetClient() *cos.Client
	// UploadFile 从 io.Reader 上传文件，并返回其公开可访问的 URL
	// 调用方需要负责生成合适的 objectKey
	UploadFile(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (string, error)
	// DeleteObject 从COS删除一个对象
	DeleteObject(ctx context.Context, objectKey string) error
}

type cosClient struct {
	client              *cos.Client
	sdkBucketURL        *url.URL // SDK 操作时使用的存储桶URL
	publicAccessURLBase *url.URL // 用于拼接最终对象公开访问URL的基础部分
	logger              *core.ZapLogger
	cfg                 *config.COSConfig
}

// InitCOS 初始化腾讯云 COS 客户端。
func InitCOS(cfg *config.COSConfig, logger *core.ZapLogger) (COSClientInterface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("COS 配置不能为nil")
	}
	if cfg.SecretID == "" || cfg.SecretKey == "" || cfg.BucketName == "" || cfg.AppID == "" || cfg.Region == "" {
		logger.Error("COS 配置不完整", zap.Any("配置详情", cfg))
		return nil, fmt.Errorf("COS 配置不完整，缺少关键字段 (SecretID, SecretKey, BucketName, AppID, Region)")
	}

	sdkBucketURLStr := fmt.Sprintf("https://%s-%s.cos.%s.myqcloud.com", cfg.BucketName, cfg.AppID, cfg.Region)
	sdkURL, err := url.Parse(sdkBucketURLStr)
	if err != nil {
		return nil, fmt.Errorf("解析 COS 存储桶 SDK 操作 URL '%s' 失败: %w", sdkBucketURLStr, err)
	}

	// BaseURL 配置时作为公共访问基础（CDN 或自定义域名）；
	// 否则公有读桶的标准 URL 与 SDK 操作 URL 结构一致。
	var finalPublicURLBase *url.URL
	if cfg.BaseURL != "" {
		pu, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("解析提供的 COS 公共访问 BaseURL '%s' 失败: %w", cfg.BaseURL, err)
		}
		finalPublicURLBase = pu
	} else {
		finalPublicURLBase = sdkURL
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: sdkURL}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
		},
	})

	logger.Info("COS 客户端初始化成功",
		zap.String("存储桶名称", cfg.BucketName),
		zap.String("地域", cfg.Region),
		zap.String("公共访问基础URL", finalPublicURLBase.String()),
	)

	return &cosClient{
		client:              client,
		sdkBucketURL:        sdkURL,
		publicAccessURLBase: finalPublicURLBase,
		logger:              logger,
		cfg:                 cfg,
	}, nil
}

func (c *cosClient) GetClient() *cos.Client {
	return c.client
}

// buildPublicObjectURL 构建对象的完整公共访问URL
func (c *cosClient) buildPublicObjectURL(objectKey string) string {
	basePath := c.publicAccessURLBase.Path
	if basePath != "/" && !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	trimmedObjectKey := strings.TrimPrefix(objectKey, "/")

	finalURL := *c.publicAccessURLBase
	finalURL.Path = basePath + trimmedObjectKey
	return finalURL.String()
}

// UploadFile 从 io.Reader 上传文件，并返回其公开可访问的 URL
func (c *cosClient) UploadFile(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (string, error) {
	opts := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType:   contentType,
			ContentLength: size,
		},
	}

	resp, err := c.client.Object.Put(ctx, objectKey, reader, opts)
	if err != nil {
		c.logger.Error("COS 文件上传 API 调用失败", zap.String("对象键", objectKey), zap.Error(err))
		return "", fmt.Errorf("上传文件 '%s' 到 COS 失败: %w", objectKey, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errMsgBytes, _ := io.ReadAll(resp.Body)
		c.logger.Error("COS 文件上传返回非200状态码",
			zap.String("对象键", objectKey),
			zap.Int("状态码", resp.StatusCode),
		)
		return "", fmt.Errorf("COS 文件上传失败，状态码: %d, 响应: %s", resp.StatusCode, string(errMsgBytes))
	}

	publicURL := c.buildPublicObjectURL(objectKey)
	c.logger.Info("COS 文件上传成功", zap.String("对象键", objectKey), zap.String("公开访问URL", publicURL))
	return publicURL, nil
}

// DeleteObject 从COS删除一个对象
func (c *cosClient) DeleteObject(ctx context.Context, objectKey string) error {
	resp, err := c.client.Object.Delete(ctx, objectKey)
	if err != nil {
		c.logger.Error("COS 对象删除 API 调用失败", zap.String("对象键", objectKey), zap.Error(err))
		return fmt.Errorf("从 COS 删除对象 '%s' 失败: %w", objectKey, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		errMsgBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("COS 对象删除失败，状态码: %d, 响应: %s", resp.StatusCode, string(errMsgBytes))
	}
	c.logger.Info("COS 对象删除成功", zap.String("对象键", objectKey))
	return nil
}
