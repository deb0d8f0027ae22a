package main

import (
	"errors"
	"ets/src/db"
	"ets/src/middlewares"
	"ets/src/models"
	"ets/src/types"
	"ets/src/utils"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func publicEventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events", func(ctx *gin.Context) {
			var filters types.EventQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			limit := filters.Limit
			if limit <= 0 || limit > 100 {
				limit = 50
			}
			var events []models.Event
			gdb := db.GetDb()
			err := gdb.Transaction(func(tx *gorm.DB) error {
				q := tx.
					Model(&models.Event{}).
					Where("status = ?", types.EVENT_ACTIVE).
					Where("date >= ?", time.Now().Format("2006-01-02"))
				if filters.Category != "" {
					q = q.Where("category = ?", filters.Category)
				}
				if filters.Search != "" {
					like := "%" + filters.Search + "%"
					q = q.Where("title ILIKE ? OR description ILIKE ? OR location ILIKE ?", like, like, like)
				}
				if filters.Date != "" {
					q = q.Where("date = ?", filters.Date)
				}
				switch filters.Price {
				case "free":
					q = q.Where("general_price = 0")
				case "paid":
					q = q.Where("general_price > 0 AND general_price <= 100")
				case "premium":
					q = q.Where("general_price > 100")
				}
				return q.
					Order("date asc, time asc").
					Limit(limit).
					Offset(filters.Offset).
					Find(&events).
					Error
			})
			if err != nil {
				log.Printf("Error retrieving events: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events, "count": len(events)})
		}).
		GET("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var event models.Event
			gdb := db.GetDb()
			err := gdb.
				Model(&models.Event{}).
				Where(&models.Event{ID: params.ID}).
				Preload("Organizer", func(tx *gorm.DB) *gorm.DB {
					return tx.Select("id", "name", "company", "website", "is_verified")
				}).
				First(&event).
				Error
			if err != nil {
				log.Printf("Error finding event %d: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Event does not exist"})
				return
			}
			// Inactive events are only visible to their organizer
			if event.Status != types.EVENT_ACTIVE {
				role := ctx.GetString("role")
				accountId := ctx.GetUint("id")
				if role != string(types.ROLE_ORGANIZER) || accountId != event.OrganizerID {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "Event does not exist"})
					return
				}
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		})
	return g
}

func eventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/events", middlewares.RequireOrganizer, func(ctx *gin.Context) {
			var body types.CreateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			organizerId := ctx.GetUint("id")
			id, err := utils.CreateNewEvent(&body, organizerId)
			if err != nil {
				log.Printf("error creating event: %s", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": id})
		}).
		PUT("/events/:id", middlewares.RequireOrganizer, func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			organizerId := ctx.GetUint("id")
			if err := utils.UpdateEvent(params.ID, organizerId, &body); err != nil {
				log.Printf("error updating event %d: %s\n", params.ID, err.Error())
				ctx.JSON(utils.ErrStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/events/:id", middlewares.RequireOrganizer, func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			organizerId := ctx.GetUint("id")
			if err := utils.DeleteEvent(params.ID, organizerId); err != nil {
				log.Printf("error deleting event %d: %s\n", params.ID, err.Error())
				ctx.JSON(utils.ErrStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		GET("/events/:id/registrations", middlewares.RequireOrganizer, func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			organizerId := ctx.GetUint("id")
			var registrations []models.Registration
			gdb := db.GetDb()
			err := gdb.Transaction(func(tx *gorm.DB) error {
				var event models.Event
				if err := tx.Where(&models.Event{ID: params.ID}).First(&event).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return types.ErrNotFound
					}
					return err
				}
				if event.OrganizerID != organizerId {
					return types.ErrPermissionDenied
				}
				return tx.
					Model(&models.Registration{}).
					Where(&models.Registration{EventID: params.ID}).
					Preload("Tickets").
					Order("created_at desc").
					Find(&registrations).
					Error
			})
			if err != nil {
				log.Printf("Error retrieving registrations for event %d: %s\n", params.ID, err.Error())
				ctx.JSON(utils.ErrStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": registrations, "count": len(registrations)})
		}).
		GET("/events/:id/stats", middlewares.RequireOrganizer, func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			organizerId := ctx.GetUint("id")
			stats, err := utils.GetEventStats(params.ID, organizerId)
			if err != nil {
				log.Printf("Error retrieving stats for event %d: %s\n", params.ID, err.Error())
				ctx.JSON(utils.ErrStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": stats})
		})
	return g
}
