package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"

	"spv_captable_back/pkg/middleware"
	"spv_captable_back/pkg/service"
)

type Handler struct {
	service *service.Service
}

func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) InitRoute() *gin.Engine {
	router := gin.New()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     viper.GetStringSlice("server.cors_origins"),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Actor-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	api := router.Group("/api", middleware.ActorMiddleware())
	{
		transfers := api.Group("/transfers")
		{
			transfers.POST("/", h.CreateTransfer)
			transfers.GET("/:id", h.GetTransfer)
			transfers.GET("/:id/documents", h.GetTransferDocuments)
			transfers.GET("/:id/history", h.GetTransferHistory)
			transfers.POST("/:id/confirm/requester", h.ConfirmAsRequester)
			transfers.POST("/:id/confirm/recipient", h.ConfirmAsRecipient)
			transfers.POST("/:id/decline", h.DeclineAsRecipient)
			transfers.POST("/:id/approve", h.ApproveTransfer)
			transfers.POST("/:id/reject", h.RejectTransfer)
			transfers.POST("/:id/cancel", h.CancelTransfer)
			transfers.POST("/:id/complete", h.CompleteTransfer)
			transfers.POST("/:id/resubmit", h.ResubmitTransfer)
		}

		vehicles := api.Group("/vehicles")
		{
			vehicles.GET("/:id", h.GetVehicle)
			vehicles.GET("/:id/captable", h.GetCapTable)
			vehicles.GET("/:id/ledger/:investorId", h.GetOwnershipChain)
			vehicles.POST("/:id/investments", h.RecordInvestment)
			vehicles.POST("/:id/adjustments", h.RecordAdjustment)
		}

		investors := api.Group("/investors")
		{
			investors.GET("/:id", h.GetInvestor)
		}
	}
	return router
}
