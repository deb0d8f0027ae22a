package main

import (
	"encoding/hex"
	"errors"
	"ets/src/config"
	"ets/src/db"
	"ets/src/lib"
	"ets/src/lib/mailer"
	"ets/src/middlewares"
	"ets/src/models"
	"ets/src/types"
	"ets/src/utils"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/yeqown/go-qrcode"
	"gorm.io/gorm"
)

func registrationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/registrations", func(ctx *gin.Context) {
			var body types.CreateRegistrationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var userId *uint
			if id := ctx.GetUint("id"); id > 0 && ctx.GetString("role") == string(types.ROLE_USER) {
				userId = &id
			}
			registration, err := utils.RegisterForEvent(userId, &body)
			if err != nil {
				log.Printf("[Registrations] error: %s\n", err.Error())
				ctx.JSON(utils.ErrStatus(err), gin.H{"error": err.Error()})
				return
			}

			go func(r *models.Registration) {
				body := fmt.Sprintf(
					"Hi %s,\n\nYour registration for %s is confirmed.\nTickets: %d x %s\nTotal: %.2f\n",
					r.AttendeeName, r.Event.Title, r.Quantity, r.TicketType, r.TotalPrice,
				)
				if err := mailer.NewMailerMessage(&lib.SendMailInput{
					From:     config.SMTP_FROM,
					FromName: "noreply",
					To:       []string{r.AttendeeEmail},
					Subject:  "Registration Confirmed",
					Body:     body,
				}); err != nil {
					log.Printf("Could not queue confirmation email for registration [%d]: %s\n", r.ID, err.Error())
				}
			}(registration)

			ctx.JSON(http.StatusCreated, gin.H{"data": registration})
		})
	return g
}

func authorizedRegistrationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/registrations", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			var registrations []models.Registration
			gdb := db.GetDb()
			err := gdb.Transaction(func(tx *gorm.DB) error {
				return tx.
					Model(&models.Registration{}).
					Where("user_id = ?", userId).
					Preload("Event").
					Preload("Tickets").
					Order("created_at desc").
					Find(&registrations).
					Error
			})
			if err != nil {
				log.Printf("Error retrieving registrations for user %d: %s\n", userId, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": registrations, "count": len(registrations)})
		}).
		GET("/registrations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			accountId := ctx.GetUint("id")
			role := ctx.GetString("role")
			var registration models.Registration
			gdb := db.GetDb()
			if err := gdb.
				Where(&models.Registration{ID: params.ID}).
				Preload("Event").
				Preload("Tickets").
				First(&registration).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			allowed := role == string(types.ROLE_ADMIN) ||
				(role == string(types.ROLE_ORGANIZER) && registration.Event.OrganizerID == accountId) ||
				(registration.UserID != nil && *registration.UserID == accountId)
			if !allowed {
				ctx.JSON(http.StatusForbidden, gin.H{"error": types.ErrPermissionDenied.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": registration})
		}).
		DELETE("/registrations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			accountId := ctx.GetUint("id")
			role := ctx.GetString("role")
			if err := utils.CancelRegistration(params.ID, accountId, role); err != nil {
				log.Printf("[Registrations] cancel error: %s\n", err.Error())
				ctx.JSON(utils.ErrStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		POST("/checkin", middlewares.RequireOrganizer, func(ctx *gin.Context) {
			var body types.CheckInRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			code := body.Code
			// QR payloads carry the encrypted code
			if key, err := hex.DecodeString(os.Getenv("API_QRC_SECRET")); err == nil && len(key) > 0 {
				if message, err := utils.DecryptMessage(key, body.Code); err == nil {
					code = *message
				}
			}
			organizerId := ctx.GetUint("id")
			ticket, err := utils.CheckInTicket(code, organizerId)
			if err != nil {
				log.Printf("[CheckIn] error: %s\n", err.Error())
				ctx.JSON(utils.ErrStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticket})
		}).
		GET("/tickets/:code/qr", func(ctx *gin.Context) {
			var params struct {
				Code string `uri:"code" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			accountId := ctx.GetUint("id")
			role := ctx.GetString("role")
			var ticket models.Ticket
			gdb := db.GetDb()
			if err := gdb.
				Where(&models.Ticket{TicketCode: params.Code}).
				Preload("Registration").
				Preload("Registration.Event").
				First(&ticket).
				Error; err != nil {
				ctx.Status(http.StatusNotFound)
				return
			}
			allowed := role == string(types.ROLE_ADMIN) ||
				(role == string(types.ROLE_ORGANIZER) && ticket.Registration.Event.OrganizerID == accountId) ||
				(ticket.Registration.UserID != nil && *ticket.Registration.UserID == accountId)
			if !allowed {
				ctx.JSON(http.StatusForbidden, gin.H{"error": types.ErrPermissionDenied.Error()})
				return
			}
			key, err := hex.DecodeString(os.Getenv("API_QRC_SECRET"))
			if err != nil {
				log.Printf("Could not read QR secret: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			payload, err := utils.EncryptMessage(key, ticket.TicketCode)
			if err != nil {
				log.Printf("Error encrypting QR payload: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			qrc, err := qrcode.New(payload)
			if err != nil {
				log.Printf("Error generating QR code: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			tempDir := os.Getenv("TEMP_DIR")
			if tempDir == "" {
				tempDir = os.TempDir()
			}
			filePath := path.Join(tempDir, fmt.Sprintf("%s.jpeg", ticket.TicketCode))
			if err := qrc.Save(filePath); err != nil {
				log.Printf("Error saving QR code: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.FileAttachment(filePath, fmt.Sprintf("%s.jpeg", ticket.TicketCode))
		})
	return g
}
