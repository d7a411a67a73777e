// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	App AppServiceConfig // App related config // 应用相关配置
}

// AppServiceConfig app service configuration
// AppServiceConfig 应用服务配置
type AppServiceConfig struct {
	UploadMaxSize     int64 // Max size of one uploaded file in bytes, 0 for no limit // 单个上传文件的最大字节数，0 表示不限制
	UploadConcurrency int   // Files stored in parallel per save // 每次保存并行存储的文件数
}

func (c *ServiceConfig) uploadMaxSize() int64 {
	if c == nil {
		return 0
	}
	return c.App.UploadMaxSize
}

func (c *ServiceConfig) uploadConcurrency() int {
	if c == nil || c.App.UploadConcurrency <= 0 {
		return 4
	}
	return c.App.UploadConcurrency
}
