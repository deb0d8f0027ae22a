package main

import (
	"ets/src/db"
	"ets/src/middlewares"
	"ets/src/models"
	"ets/src/types"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func organizerHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	organizer := g.Group("/organizer")
	organizer.Use(middlewares.RequireOrganizer)
	organizer.
		GET("/me", func(ctx *gin.Context) {
			organizerId := ctx.GetUint("id")
			var me models.Organizer
			gdb := db.GetDb()
			if err := gdb.
				Model(&models.Organizer{}).
				Where(&models.Organizer{ID: organizerId}).
				First(&me).
				Error; err != nil {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": me})
		}).
		PUT("/me", func(ctx *gin.Context) {
			var body types.UpdateOrganizerProfileRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			organizerId := ctx.GetUint("id")
			updates := map[string]any{}
			if body.Name != nil {
				updates["name"] = *body.Name
			}
			if body.Phone != nil {
				updates["phone"] = *body.Phone
			}
			if body.Company != nil {
				updates["company"] = *body.Company
			}
			if body.Description != nil {
				updates["description"] = *body.Description
			}
			if body.Website != nil {
				updates["website"] = *body.Website
			}
			if len(updates) == 0 {
				ctx.Status(http.StatusNoContent)
				return
			}
			gdb := db.GetDb()
			if err := gdb.Transaction(func(tx *gorm.DB) error {
				return tx.
					Model(&models.Organizer{}).
					Where("id = ?", organizerId).
					Updates(updates).
					Error
			}); err != nil {
				log.Printf("Error updating organizer %d: %s\n", organizerId, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		GET("/events", func(ctx *gin.Context) {
			organizerId := ctx.GetUint("id")
			var events []models.Event
			gdb := db.GetDb()
			err := gdb.Transaction(func(tx *gorm.DB) error {
				return tx.
					Model(&models.Event{}).
					Where(&models.Event{OrganizerID: organizerId}).
					Order("date asc, time asc").
					Find(&events).
					Error
			})
			if err != nil {
				log.Printf("Error retrieving events for organizer %d: %s\n", organizerId, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			// registration counts and revenue per event, confirmed only
			type rollup struct {
				EventID uint
				Count   int64
				Revenue float64
			}
			var rollups []rollup
			if err := gdb.
				Model(&models.Registration{}).
				Select("event_id, COUNT(*) AS count, COALESCE(SUM(total_price),0) AS revenue").
				Where("status = ?", types.REGISTRATION_CONFIRMED).
				Group("event_id").
				Scan(&rollups).
				Error; err != nil {
				log.Printf("Error aggregating registrations: %s\n", err.Error())
			}
			byEvent := map[uint]rollup{}
			for _, r := range rollups {
				byEvent[r.EventID] = r
			}
			for i := range events {
				r := byEvent[events[i].ID]
				count, revenue := r.Count, r.Revenue
				events[i].RegistrationCount = &count
				events[i].TotalRevenue = &revenue
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events, "count": len(events)})
		})
	return g
}
