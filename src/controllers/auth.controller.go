package controllers

import (
	"errors"
	"ets/src/config"
	"ets/src/db"
	"ets/src/models"
	"ets/src/types"
	"ets/src/utils"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrDuplicateEmail = errors.New("an account with this email already exists")

func AuthRegister(ctx *gin.Context) (user *models.User, status int, err error) {
	var body types.RegisterUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		log.Printf("Error hashing password: %s\n", err.Error())
		return nil, http.StatusInternalServerError, err
	}
	newUser := models.User{
		Name:         body.Name,
		Email:        strings.ToLower(body.Email),
		PasswordHash: hash,
		Phone:        body.Phone,
		Role:         types.ROLE_USER,
		IsActive:     true,
	}
	gdb := db.GetDb()
	err = gdb.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.
			Model(&models.User{}).
			Where("email = ?", newUser.Email).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateEmail
		}
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, http.StatusConflict, err
		}
		return nil, http.StatusInternalServerError, err
	}
	return &newUser, http.StatusCreated, nil
}

func AuthLogin(ctx *gin.Context) (token *string, status int, err error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	gdb := db.GetDb()
	var user models.User
	if err := gdb.
		Model(&models.User{}).
		Where("email = ?", strings.ToLower(body.Email)).
		First(&user).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusUnauthorized, errors.New("invalid email or password")
		}
		return nil, http.StatusBadRequest, err
	}
	if !user.IsActive {
		return nil, http.StatusForbidden, errors.New("account has been deactivated")
	}
	if !utils.VerifyPassword(user.PasswordHash, body.Password) {
		return nil, http.StatusUnauthorized, errors.New("invalid email or password")
	}

	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    &user.ID,
		UserType:  user.Role,
		ExpiresAt: time.Now().Add(config.TOKEN_TTL),
	}
	if err := gdb.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&session).Error
	}); err != nil {
		log.Printf("Error recording session for user [%d]: %s\n", user.ID, err.Error())
		return nil, http.StatusBadRequest, err
	}

	jwt, err := utils.GenerateJWT(user.Email, user.ID, string(user.Role), session.ID)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return &jwt, http.StatusOK, nil
}

func OrganizerRegister(ctx *gin.Context) (organizer *models.Organizer, status int, err error) {
	var body types.RegisterOrganizerRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		log.Printf("Error hashing password: %s\n", err.Error())
		return nil, http.StatusInternalServerError, err
	}
	newOrganizer := models.Organizer{
		Name:         body.Name,
		Email:        strings.ToLower(body.Email),
		PasswordHash: hash,
		Phone:        body.Phone,
		Company:      body.Company,
		Description:  body.Description,
		Website:      body.Website,
		IsActive:     true,
	}
	gdb := db.GetDb()
	err = gdb.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.
			Model(&models.Organizer{}).
			Where("email = ?", newOrganizer.Email).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateEmail
		}
		if err := tx.Create(&newOrganizer).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, http.StatusConflict, err
		}
		return nil, http.StatusInternalServerError, err
	}
	return &newOrganizer, http.StatusCreated, nil
}

func OrganizerLogin(ctx *gin.Context) (token *string, status int, err error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	gdb := db.GetDb()
	var organizer models.Organizer
	if err := gdb.
		Model(&models.Organizer{}).
		Where("email = ?", strings.ToLower(body.Email)).
		First(&organizer).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusUnauthorized, errors.New("invalid email or password")
		}
		return nil, http.StatusBadRequest, err
	}
	if !organizer.IsActive {
		return nil, http.StatusForbidden, errors.New("account has been deactivated")
	}
	if !utils.VerifyPassword(organizer.PasswordHash, body.Password) {
		return nil, http.StatusUnauthorized, errors.New("invalid email or password")
	}

	session := models.Session{
		ID:          uuid.NewString(),
		OrganizerID: &organizer.ID,
		UserType:    types.ROLE_ORGANIZER,
		ExpiresAt:   time.Now().Add(config.TOKEN_TTL),
	}
	if err := gdb.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&session).Error
	}); err != nil {
		log.Printf("Error recording session for organizer [%d]: %s\n", organizer.ID, err.Error())
		return nil, http.StatusBadRequest, err
	}

	jwt, err := utils.GenerateJWT(organizer.Email, organizer.ID, string(types.ROLE_ORGANIZER), session.ID)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return &jwt, http.StatusOK, nil
}

func AuthChangePassword(ctx *gin.Context) (status int, err error) {
	var body types.ChangePasswordRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return http.StatusBadRequest, err
	}
	accountId := ctx.GetUint("id")
	role := ctx.GetString("role")
	gdb := db.GetDb()
	err = gdb.Transaction(func(tx *gorm.DB) error {
		if role == string(types.ROLE_ORGANIZER) {
			var organizer models.Organizer
			if err := tx.Where(&models.Organizer{ID: accountId}).First(&organizer).Error; err != nil {
				return err
			}
			if !utils.VerifyPassword(organizer.PasswordHash, body.CurrentPassword) {
				return errors.New("current password is incorrect")
			}
			hash, err := utils.HashPassword(body.NewPassword)
			if err != nil {
				return err
			}
			return tx.
				Model(&models.Organizer{}).
				Where("id = ?", accountId).
				Update("password_hash", hash).
				Error
		}
		var user models.User
		if err := tx.Where(&models.User{ID: accountId}).First(&user).Error; err != nil {
			return err
		}
		if !utils.VerifyPassword(user.PasswordHash, body.CurrentPassword) {
			return errors.New("current password is incorrect")
		}
		hash, err := utils.HashPassword(body.NewPassword)
		if err != nil {
			return err
		}
		return tx.
			Model(&models.User{}).
			Where("id = ?", accountId).
			Update("password_hash", hash).
			Error
	})
	if err != nil {
		return http.StatusBadRequest, err
	}
	return http.StatusOK, nil
}

func AuthLogout(ctx *gin.Context) (status int, err error) {
	sid := ctx.GetString("sid")
	if sid == "" {
		return http.StatusOK, nil
	}
	gdb := db.GetDb()
	if err := gdb.Transaction(func(tx *gorm.DB) error {
		return tx.Where("id = ?", sid).Delete(&models.Session{}).Error
	}); err != nil {
		log.Printf("Error removing session [%s]: %s\n", sid, err.Error())
		return http.StatusBadRequest, err
	}
	return http.StatusOK, nil
}
