package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"ets/src/config"
	"ets/src/db"
	"ets/src/models"
	"ets/src/types"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func GenerateJWT(email string, id uint, role string, sessionId string) (string, error) {
	now := time.Now()
	claims := &types.Claims{
		Email:     email,
		Role:      role,
		SessionID: sessionId,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(id), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(config.TOKEN_TTL)),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

const codeCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateTicketCode builds codes of the form TKT-<base36 millis>-<rand6>.
// Uniqueness is enforced by the index on tickets.ticket_code; a collision
// fails the insert instead of being retried silently.
func GenerateTicketCode() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeCharset))))
		if err != nil {
			suffix[i] = codeCharset[0]
			continue
		}
		suffix[i] = codeCharset[n.Int64()]
	}
	return fmt.Sprintf("TKT-%s-%s", ts, string(suffix))
}

func EncryptMessage(key []byte, message string) (string, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		log.Printf("Error creating cipher: %s\n", err.Error())
		return "", err
	}
	gcm, err := cipher.NewGCM(c)
	if err != nil {
		log.Printf("Error in GCM: %s\n", err.Error())
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		log.Printf("Error creating nonce: %s\n", err.Error())
		return "", err
	}
	sealed := gcm.Seal(nonce, nonce, []byte(message), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func DecryptMessage(key []byte, message string) (*string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(message)
	if err != nil {
		return nil, err
	}
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(c)
	if err != nil {
		return nil, err
	}
	if len(raw) < gcm.NonceSize() {
		return nil, errors.New("message too short")
	}
	nonce, sealed := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, err
	}
	message = string(plain)
	return &message, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key value")
}

// ErrStatus maps domain failures to HTTP status codes.
func ErrStatus(err error) int {
	var inv *types.InsufficientInventoryError
	var chk *types.AlreadyCheckedInError
	switch {
	case errors.Is(err, types.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, types.ErrInvalidState),
		errors.Is(err, types.ErrCancellationWindowClosed),
		errors.Is(err, types.ErrStorageConflict),
		errors.As(err, &inv),
		errors.As(err, &chk),
		isUniqueViolation(err):
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

func remainingColumn(tt types.TicketType) string {
	if tt == types.TICKET_VIP {
		return "vip_remaining"
	}
	return "general_remaining"
}

func CreateNewEvent(body *types.CreateEventRequestBody, organizerId uint) (uint, error) {
	startsAt, err := time.ParseInLocation(
		fmt.Sprintf("%s %s", config.DATE_PARSE_FORMAT, config.TIME_PARSE_FORMAT),
		fmt.Sprintf("%s %s", body.Date, body.Time),
		time.Local,
	)
	if err != nil {
		return 0, err
	}
	if !startsAt.After(time.Now()) {
		return 0, errors.New("event date must be in the future")
	}
	event := models.Event{
		Title:            body.Title,
		Slug:             slug.Make(body.Title),
		Description:      body.Description,
		Date:             body.Date,
		Time:             body.Time,
		Location:         body.Location,
		Category:         body.Category,
		ImageURL:         body.ImageURL,
		Status:           types.EVENT_ACTIVE,
		OrganizerID:      organizerId,
		GeneralPrice:     body.GeneralPrice,
		GeneralCapacity:  body.GeneralCapacity,
		GeneralRemaining: int64(body.GeneralCapacity),
		VIPPrice:         body.VIPPrice,
		VIPCapacity:      body.VIPCapacity,
		VIPRemaining:     int64(body.VIPCapacity),
	}
	gdb := db.GetDb()
	err = gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return event.ID, nil
}

// UpdateEvent applies a partial update. Capacity edits move remaining by the
// delta between old and new capacity so sold tickets stay accounted for.
func UpdateEvent(eventId uint, organizerId uint, body *types.UpdateEventRequestBody) error {
	gdb := db.GetDb()
	return gdb.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Event{ID: eventId}).
			First(&event).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrNotFound
			}
			return err
		}
		if event.OrganizerID != organizerId {
			return types.ErrPermissionDenied
		}

		updates := map[string]any{}
		if body.Title != nil {
			updates["title"] = *body.Title
			updates["slug"] = slug.Make(*body.Title)
		}
		if body.Description != nil {
			updates["description"] = *body.Description
		}
		if body.Location != nil {
			updates["location"] = *body.Location
		}
		if body.Category != nil {
			updates["category"] = *body.Category
		}
		if body.ImageURL != nil {
			updates["image_url"] = *body.ImageURL
		}
		if body.Status != nil {
			updates["status"] = *body.Status
		}
		if body.Date != nil || body.Time != nil {
			date, etime := event.Date, event.Time
			if body.Date != nil {
				date = *body.Date
			}
			if body.Time != nil {
				etime = *body.Time
			}
			startsAt, err := time.ParseInLocation(
				fmt.Sprintf("%s %s", config.DATE_PARSE_FORMAT, config.TIME_PARSE_FORMAT),
				fmt.Sprintf("%s %s", date, etime),
				time.Local,
			)
			if err != nil {
				return err
			}
			if !startsAt.After(time.Now()) {
				return errors.New("event date must be in the future")
			}
			updates["date"] = date
			updates["time"] = etime
		}
		if body.GeneralPrice != nil {
			updates["general_price"] = *body.GeneralPrice
		}
		if body.VIPPrice != nil {
			updates["vip_price"] = *body.VIPPrice
		}
		if body.GeneralCapacity != nil {
			delta := int64(*body.GeneralCapacity) - int64(event.GeneralCapacity)
			updates["general_capacity"] = *body.GeneralCapacity
			updates["general_remaining"] = gorm.Expr("general_remaining + ?", delta)
		}
		if body.VIPCapacity != nil {
			delta := int64(*body.VIPCapacity) - int64(event.VIPCapacity)
			updates["vip_capacity"] = *body.VIPCapacity
			updates["vip_remaining"] = gorm.Expr("vip_remaining + ?", delta)
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.
			Model(&models.Event{}).
			Where("id = ?", event.ID).
			Updates(updates).
			Error; err != nil {
			return err
		}
		return nil
	})
}

func DeleteEvent(eventId uint, organizerId uint) error {
	gdb := db.GetDb()
	return gdb.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.
			Where(&models.Event{ID: eventId}).
			First(&event).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrNotFound
			}
			return err
		}
		if event.OrganizerID != organizerId {
			return types.ErrPermissionDenied
		}
		var count int64
		if err := tx.
			Model(&models.Registration{}).
			Where(&models.Registration{EventID: eventId, Status: types.REGISTRATION_CONFIRMED}).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: event has %d confirmed registrations", types.ErrInvalidState, count)
		}
		if err := tx.Delete(&models.Event{}, eventId).Error; err != nil {
			return err
		}
		return nil
	})
}

func createNotification(tx *gorm.DB, userId uint, title, content string, ntype types.NotificationType) error {
	notification := models.Notification{
		UserID:  userId,
		Title:   title,
		Content: content,
		Type:    ntype,
	}
	return tx.Create(&notification).Error
}

// RegisterForEvent is the write side of the inventory ledger. The event row
// is locked for the duration of the transaction so the remaining guard and
// the decrement cannot interleave with a concurrent registration.
func RegisterForEvent(userId *uint, body *types.CreateRegistrationRequestBody) (*models.Registration, error) {
	tt := types.TicketType(body.TicketType)
	var registration models.Registration
	gdb := db.GetDb()
	err := gdb.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Event{ID: body.EventID}).
			First(&event).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrNotFound
			}
			return err
		}
		if event.Status != types.EVENT_ACTIVE {
			return fmt.Errorf("%w: event is not open for registration", types.ErrInvalidState)
		}
		startsAt, err := event.StartsAt()
		if err != nil {
			return err
		}
		if !startsAt.After(time.Now()) {
			return fmt.Errorf("%w: event has already started", types.ErrInvalidState)
		}
		if event.Remaining(tt) < int64(body.Quantity) {
			return &types.InsufficientInventoryError{TicketType: tt, Remaining: event.Remaining(tt)}
		}

		col := remainingColumn(tt)
		res := tx.
			Model(&models.Event{}).
			Where(fmt.Sprintf("id = ? AND %s >= ?", col), event.ID, body.Quantity).
			Update(col, gorm.Expr(fmt.Sprintf("%s - ?", col), body.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &types.InsufficientInventoryError{TicketType: tt, Remaining: event.Remaining(tt)}
		}

		registration = models.Registration{
			UserID:        userId,
			EventID:       event.ID,
			TicketType:    tt,
			Quantity:      body.Quantity,
			TotalPrice:    event.UnitPrice(tt) * float64(body.Quantity),
			Status:        types.REGISTRATION_CONFIRMED,
			AttendeeName:  body.AttendeeName,
			AttendeeEmail: strings.ToLower(body.AttendeeEmail),
			AttendeePhone: body.AttendeePhone,
		}
		if err := tx.Create(&registration).Error; err != nil {
			return err
		}

		tickets := make([]models.Ticket, 0, body.Quantity)
		for i := uint(0); i < body.Quantity; i++ {
			tickets = append(tickets, models.Ticket{
				RegistrationID: registration.ID,
				TicketCode:     GenerateTicketCode(),
				TicketType:     tt,
				Status:         types.TICKET_VALID,
			})
		}
		if err := tx.Create(&tickets).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: ticket code collision", types.ErrStorageConflict)
			}
			return err
		}
		registration.Tickets = tickets

		if userId != nil {
			content := fmt.Sprintf("You have registered %d %s ticket(s) for %s", body.Quantity, tt, event.Title)
			if err := createNotification(tx, *userId, "Registration Confirmed", content, types.NOTIFICATION_SUCCESS); err != nil {
				return err
			}
		}
		registration.Event = event
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

// CancelRegistration reverses a confirmed registration while the
// cancellation window is still open and restores the pool counter.
func CancelRegistration(registrationId uint, actorId uint, role string) error {
	gdb := db.GetDb()
	return gdb.Transaction(func(tx *gorm.DB) error {
		var registration models.Registration
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Registration{ID: registrationId}).
			First(&registration).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrNotFound
			}
			return err
		}
		var event models.Event
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Event{ID: registration.EventID}).
			First(&event).
			Error; err != nil {
			return err
		}

		switch role {
		case string(types.ROLE_ADMIN):
		case string(types.ROLE_ORGANIZER):
			if event.OrganizerID != actorId {
				return types.ErrPermissionDenied
			}
		default:
			if registration.UserID == nil || *registration.UserID != actorId {
				return types.ErrPermissionDenied
			}
		}

		if registration.Status != types.REGISTRATION_CONFIRMED {
			return fmt.Errorf("%w: registration is not confirmed", types.ErrInvalidState)
		}
		startsAt, err := event.StartsAt()
		if err != nil {
			return err
		}
		if time.Until(startsAt) <= config.CANCELLATION_WINDOW {
			return types.ErrCancellationWindowClosed
		}

		if err := tx.
			Model(&models.Registration{}).
			Where("id = ?", registration.ID).
			Update("status", types.REGISTRATION_CANCELED).
			Error; err != nil {
			return err
		}
		// Stale check-in timestamps are kept for audit
		if err := tx.
			Model(&models.Ticket{}).
			Where("registration_id = ?", registration.ID).
			Update("status", types.TICKET_CANCELED).
			Error; err != nil {
			return err
		}
		col := remainingColumn(registration.TicketType)
		if err := tx.
			Model(&models.Event{}).
			Where("id = ?", event.ID).
			Update(col, gorm.Expr(fmt.Sprintf("%s + ?", col), registration.Quantity)).
			Error; err != nil {
			return err
		}
		if registration.UserID != nil {
			content := fmt.Sprintf("Your registration for %s has been cancelled", event.Title)
			if err := createNotification(tx, *registration.UserID, "Registration Cancelled", content, types.NOTIFICATION_INFO); err != nil {
				return err
			}
		}
		return nil
	})
}

// CheckInTicket stamps a one-time check-in timestamp on a valid ticket. A
// second attempt reports the original timestamp.
func CheckInTicket(code string, organizerId uint) (*models.Ticket, error) {
	var ticket models.Ticket
	gdb := db.GetDb()
	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: clause.CurrentTable}}).
			Where(&models.Ticket{TicketCode: code}).
			Preload("Registration").
			Preload("Registration.Event").
			First(&ticket).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrNotFound
			}
			return err
		}
		if ticket.Registration.Event.OrganizerID != organizerId {
			return types.ErrPermissionDenied
		}
		if ticket.Status != types.TICKET_VALID || ticket.Registration.Status != types.REGISTRATION_CONFIRMED {
			return fmt.Errorf("%w: ticket is not valid", types.ErrInvalidState)
		}
		if ticket.CheckInDate != nil {
			return &types.AlreadyCheckedInError{At: *ticket.CheckInDate}
		}
		now := time.Now()
		if err := tx.
			Model(&models.Ticket{}).
			Where("id = ?", ticket.ID).
			Update("check_in_date", now).
			Error; err != nil {
			return err
		}
		ticket.CheckInDate = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func GetEventStats(eventId uint, organizerId uint) (*types.EventStats, error) {
	stats := &types.EventStats{}
	gdb := db.GetDb()
	err := gdb.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.
			Where(&models.Event{ID: eventId}).
			First(&event).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrNotFound
			}
			return err
		}
		if event.OrganizerID != organizerId {
			return types.ErrPermissionDenied
		}
		confirmed := tx.
			Model(&models.Registration{}).
			Where(&models.Registration{EventID: eventId, Status: types.REGISTRATION_CONFIRMED})
		if err := confirmed.Count(&stats.TotalRegistrations).Error; err != nil {
			return err
		}
		type sold struct {
			TicketType types.TicketType
			Qty        int64
			Revenue    float64
		}
		var rows []sold
		if err := tx.
			Model(&models.Registration{}).
			Select("ticket_type, COALESCE(SUM(quantity),0) AS qty, COALESCE(SUM(total_price),0) AS revenue").
			Where(&models.Registration{EventID: eventId, Status: types.REGISTRATION_CONFIRMED}).
			Group("ticket_type").
			Scan(&rows).
			Error; err != nil {
			return err
		}
		for _, r := range rows {
			if r.TicketType == types.TICKET_VIP {
				stats.VIPSold = r.Qty
			} else {
				stats.GeneralSold = r.Qty
			}
			stats.TotalRevenue += r.Revenue
		}
		if err := tx.
			Model(&models.Ticket{}).
			Joins("JOIN registrations ON registrations.id = tickets.registration_id").
			Where("registrations.event_id = ? AND tickets.check_in_date IS NOT NULL", eventId).
			Count(&stats.CheckedIn).
			Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
