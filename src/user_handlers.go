package main

import (
	"errors"
	"ets/src/db"
	"ets/src/middlewares"
	"ets/src/models"
	"ets/src/types"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func userHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/users/me", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			var user models.User
			var stats types.UserStats
			gdb := db.GetDb()
			err := gdb.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Where(&models.User{ID: userId}).
					First(&user).
					Error; err != nil {
					return err
				}
				if err := tx.
					Model(&models.Registration{}).
					Where("user_id = ? AND status = ?", userId, types.REGISTRATION_CONFIRMED).
					Count(&stats.TotalRegistrations).
					Error; err != nil {
					return err
				}
				today := time.Now().Format("2006-01-02")
				if err := tx.
					Model(&models.Registration{}).
					Joins("JOIN events ON events.id = registrations.event_id").
					Where("registrations.user_id = ? AND registrations.status = ? AND events.date >= ?", userId, types.REGISTRATION_CONFIRMED, today).
					Count(&stats.UpcomingEvents).
					Error; err != nil {
					return err
				}
				if err := tx.
					Model(&models.Ticket{}).
					Joins("JOIN registrations ON registrations.id = tickets.registration_id").
					Where("registrations.user_id = ? AND tickets.check_in_date IS NOT NULL", userId).
					Count(&stats.AttendedEvents).
					Error; err != nil {
					return err
				}
				return nil
			})
			if err != nil {
				log.Printf("Error retrieving profile for user %d: %s\n", userId, err.Error())
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": user, "stats": stats})
		}).
		PUT("/users/me", func(ctx *gin.Context) {
			var body types.UpdateProfileRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			updates := map[string]any{}
			if body.Name != nil {
				updates["name"] = *body.Name
			}
			if body.Phone != nil {
				updates["phone"] = *body.Phone
			}
			if len(updates) == 0 {
				ctx.Status(http.StatusNoContent)
				return
			}
			gdb := db.GetDb()
			if err := gdb.Transaction(func(tx *gorm.DB) error {
				return tx.
					Model(&models.User{}).
					Where("id = ?", userId).
					Updates(updates).
					Error
			}); err != nil {
				log.Printf("Error updating user %d: %s\n", userId, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		GET("/users/me/dashboard", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			var upcoming, past []models.Registration
			var notifications []models.Notification
			gdb := db.GetDb()
			err := gdb.Transaction(func(tx *gorm.DB) error {
				today := time.Now().Format("2006-01-02")
				if err := tx.
					Model(&models.Registration{}).
					Joins("JOIN events ON events.id = registrations.event_id").
					Where("registrations.user_id = ? AND registrations.status = ? AND events.date >= ?", userId, types.REGISTRATION_CONFIRMED, today).
					Preload("Event").
					Order("events.date asc").
					Limit(5).
					Find(&upcoming).
					Error; err != nil {
					return err
				}
				if err := tx.
					Model(&models.Registration{}).
					Joins("JOIN events ON events.id = registrations.event_id").
					Where("registrations.user_id = ? AND events.date < ?", userId, today).
					Preload("Event").
					Order("events.date desc").
					Limit(5).
					Find(&past).
					Error; err != nil {
					return err
				}
				if err := tx.
					Model(&models.Notification{}).
					Where(&models.Notification{UserID: userId}).
					Order("created_at desc").
					Limit(5).
					Find(&notifications).
					Error; err != nil {
					return err
				}
				return nil
			})
			if err != nil {
				log.Printf("Error building dashboard for user %d: %s\n", userId, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"upcoming":      upcoming,
				"past":          past,
				"notifications": notifications,
			}})
		}).
		GET("/users/me/activity", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			var registrations []models.Registration
			gdb := db.GetDb()
			if err := gdb.
				Model(&models.Registration{}).
				Where("user_id = ?", userId).
				Preload("Event").
				Preload("Tickets").
				Order("updated_at desc").
				Limit(20).
				Find(&registrations).
				Error; err != nil {
				log.Printf("Error retrieving activity for user %d: %s\n", userId, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			type activity struct {
				Action    string    `json:"action"`
				EventID   uint      `json:"event_id"`
				Event     string    `json:"event"`
				Timestamp time.Time `json:"timestamp"`
			}
			var entries []activity
			for _, r := range registrations {
				action := "registered"
				if r.Status == types.REGISTRATION_CANCELED {
					action = "cancelled"
				}
				entries = append(entries, activity{
					Action:    action,
					EventID:   r.EventID,
					Event:     r.Event.Title,
					Timestamp: r.UpdatedAt,
				})
				for _, t := range r.Tickets {
					if t.CheckInDate != nil {
						entries = append(entries, activity{
							Action:    "checked_in",
							EventID:   r.EventID,
							Event:     r.Event.Title,
							Timestamp: *t.CheckInDate,
						})
					}
				}
			}
			ctx.JSON(http.StatusOK, gin.H{"data": entries})
		}).
		DELETE("/users/me", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			gdb := db.GetDb()
			err := gdb.Transaction(func(tx *gorm.DB) error {
				var active int64
				today := time.Now().Format("2006-01-02")
				if err := tx.
					Model(&models.Registration{}).
					Joins("JOIN events ON events.id = registrations.event_id").
					Where("registrations.user_id = ? AND registrations.status = ? AND events.date >= ?", userId, types.REGISTRATION_CONFIRMED, today).
					Count(&active).
					Error; err != nil {
					return err
				}
				if active > 0 {
					return fmt.Errorf("%w: cancel your %d upcoming registration(s) first", types.ErrInvalidState, active)
				}
				if err := tx.Where("user_id = ?", userId).Delete(&models.Notification{}).Error; err != nil {
					return err
				}
				if err := tx.Where("user_id = ?", userId).Delete(&models.Session{}).Error; err != nil {
					return err
				}
				// Historical registrations survive for organizer reporting
				if err := tx.
					Model(&models.Registration{}).
					Where("user_id = ?", userId).
					Update("user_id", nil).
					Error; err != nil {
					return err
				}
				if err := tx.Delete(&models.User{}, userId).Error; err != nil {
					return err
				}
				return nil
			})
			if err != nil {
				log.Printf("Error deleting account for user %d: %s\n", userId, err.Error())
				status := http.StatusBadRequest
				if errors.Is(err, types.ErrInvalidState) {
					status = http.StatusConflict
				}
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})

	g.
		GET("/users", middlewares.RequireAdmin, func(ctx *gin.Context) {
			var filters types.UsersQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			limit := filters.Limit
			if limit <= 0 || limit > 100 {
				limit = 50
			}
			var users []models.User
			gdb := db.GetDb()
			q := gdb.Model(&models.User{})
			if filters.Search != "" {
				like := "%" + filters.Search + "%"
				q = q.Where("name ILIKE ? OR email ILIKE ?", like, like)
			}
			if filters.Role != "" {
				q = q.Where("role = ?", filters.Role)
			}
			if err := q.
				Order("created_at desc").
				Limit(limit).
				Find(&users).
				Error; err != nil {
				log.Printf("Error searching users: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": users, "count": len(users)})
		})

	g.
		GET("/notifications", func(ctx *gin.Context) {
			var filters types.NotificationsQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			limit := filters.Limit
			if limit <= 0 || limit > 100 {
				limit = 50
			}
			userId := ctx.GetUint("id")
			var notifications []models.Notification
			var unread int64
			gdb := db.GetDb()
			err := gdb.Transaction(func(tx *gorm.DB) error {
				q := tx.
					Model(&models.Notification{}).
					Where(&models.Notification{UserID: userId})
				if filters.UnreadOnly {
					q = q.Where("is_read = ?", false)
				}
				if err := q.
					Order("created_at desc").
					Limit(limit).
					Find(&notifications).
					Error; err != nil {
					return err
				}
				return tx.
					Model(&models.Notification{}).
					Where("user_id = ? AND is_read = ?", userId, false).
					Count(&unread).
					Error
			})
			if err != nil {
				log.Printf("Error retrieving notifications for user %d: %s\n", userId, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": notifications, "unread_count": unread})
		}).
		PATCH("/notifications/:id/read", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			gdb := db.GetDb()
			res := gdb.
				Model(&models.Notification{}).
				Where("id = ? AND user_id = ?", params.ID, userId).
				Update("is_read", true)
			if res.Error != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": res.Error.Error()})
				return
			}
			if res.RowsAffected == 0 {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		PATCH("/notifications/read-all", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			gdb := db.GetDb()
			if err := gdb.
				Model(&models.Notification{}).
				Where("user_id = ? AND is_read = ?", userId, false).
				Update("is_read", true).
				Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
