package wire

import (
	"Agora/internal/api"
	"Agora/internal/api/handler"
	"Agora/internal/job"
	"Agora/internal/pkg/cron"
	"Agora/internal/pkg/kafka"
	"Agora/internal/repository"
	"Agora/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router    *gin.Engine
	DB        *gorm.DB
	CronMgr   *cron.Manager
	Publisher kafka.Publisher
}

// BuildApplication 组装仓储、服务、路由与定时任务，publisher 为 nil 时不发布事件
func BuildApplication(db *gorm.DB, publisher kafka.Publisher) *ApplicationContainer {
	if publisher == nil {
		publisher = kafka.NewNopPublisher()
	}

	postRepo := repository.NewPostRepository(db)
	tagRepo := repository.NewTagRepository(db)
	engagementRepo := repository.NewEngagementRepo(db)
	userRepo := repository.NewUserRepo(db)
	postMetricRepo := repository.NewPostMetricRepository(db)

	postService := service.NewPostService(postRepo, engagementRepo, tagRepo, userRepo, publisher)
	postActionService := service.NewPostActionService(engagementRepo, postRepo, publisher)
	postMetricService := service.NewPostMetricService(postMetricRepo, postRepo, engagementRepo)

	handlers := &api.HandlersGroup{
		PostHandler:       handler.NewPostHandler(postService),
		PostActionHandler: handler.NewPostActionHandler(postActionService),
		PostMetricHandler: handler.NewPostMetricHandler(postMetricService),
	}

	router := api.SetupRouter(handlers)

	postMetricsJob := job.NewPostMetricsJob(postMetricService)
	cronMgr := cron.NewCronManager(postMetricsJob)

	return &ApplicationContainer{
		Router:    router,
		DB:        db,
		CronMgr:   cronMgr,
		Publisher: publisher,
	}
}
