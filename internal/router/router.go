package router

import (
	"fmt"
	"strings"

	"github.com/trackswift/internal/cache"
	"github.com/trackswift/internal/config"
	adminhandlers "github.com/trackswift/internal/http/handlers/admin"
	publichandlers "github.com/trackswift/internal/http/handlers/public"
	"github.com/trackswift/internal/logger"
	"github.com/trackswift/internal/provider"
	"github.com/trackswift/internal/web"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) (*gin.Engine, error) {
	r := gin.New()

	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates failed: %w", err)
	}
	r.SetHTMLTemplate(templates)
	if cfg.Upload.MaxSize > 0 {
		r.MaxMultipartMemory = cfg.Upload.MaxSize
	}

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ts"
	}
	redisClient := cache.Client()
	loginRule := NewRateLimitRule(fmt.Sprintf("%s:rate:login", redisPrefix), cfg.Security.LoginRateLimit)
	loginRule.Message = "too many login attempts, please retry in %d seconds"
	chatRule := NewRateLimitRule(fmt.Sprintf("%s:rate:chat", redisPrefix), cfg.Security.ChatRateLimit)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(logger.Z()))
	r.Use(CORSMiddleware(cfg.CORS))

	// 静态文件与上传图片
	if dir := strings.TrimSpace(cfg.Server.StaticDir); dir != "" {
		r.Static("/static", dir)
	}

	r.GET("/healthz", publicHandler.Healthz)

	// 公开页面
	r.GET("/", publicHandler.Home)
	r.POST("/feedback", publicHandler.Feedback)
	r.GET("/security", publicHandler.Security)
	r.GET("/support", publicHandler.Support)
	r.GET("/track", publicHandler.TrackPage)
	r.POST("/track", publicHandler.Track)
	r.POST("/request_change", publicHandler.RequestChange)
	r.GET("/view_map/:id", publicHandler.ViewMap)
	r.GET("/create_parcel", publicHandler.CreateParcelPage)
	r.POST("/create_parcel", publicHandler.CreateParcel)
	r.GET("/login", publicHandler.LoginPage)
	r.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndFormField("username")), publicHandler.Login)
	r.GET("/logout", publicHandler.Logout)
	r.POST("/api/chat", RateLimitMiddleware(redisClient, chatRule, KeyByIP), publicHandler.Chat)

	// 管理页面（需会话）
	admin := r.Group("")
	admin.Use(AdminSessionMiddleware(c.AuthService))
	{
		admin.GET("/dashboard", adminHandler.Dashboard)
		admin.POST("/add_parcel", adminHandler.AddParcel)
		admin.GET("/approve_parcel/:id", adminHandler.ApproveParcel)
		admin.GET("/reject_parcel/:id", adminHandler.RejectParcel)
		admin.POST("/delete_parcel", adminHandler.DeleteParcel)
		admin.GET("/edit_parcel/:id", adminHandler.EditParcelPage)
		admin.POST("/edit_parcel/:id", adminHandler.EditParcel)
		admin.GET("/handle_requests", adminHandler.ChangeRequestsPage)
		admin.POST("/handle_requests", adminHandler.HandleChangeRequest)
		admin.GET("/print_label/:id", adminHandler.PrintLabel)
	}

	return r, nil
}
