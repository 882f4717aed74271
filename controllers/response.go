package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/vee4group/order-tracker-api/errs"
	"github.com/vee4group/order-tracker-api/middleware"
	"github.com/vee4group/order-tracker-api/models"
)

// respondError writes the standard error envelope with a top-level message
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondServiceError maps the error taxonomy onto HTTP status codes
func respondServiceError(c *gin.Context, err error, fallback string) {
	var (
		validation   *errs.ValidationError
		precondition *errs.PreconditionError
		notFound     *errs.NotFoundError
	)

	switch {
	case errors.As(err, &validation):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", validation.Error())
	case errors.As(err, &precondition):
		respondError(c, http.StatusBadRequest, "INVALID_TRANSITION", precondition.Error())
	case errors.Is(err, errs.ErrAuthorization):
		respondError(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.As(err, &notFound):
		code := strings.ToUpper(strings.ReplaceAll(notFound.Resource, " ", "_")) + "_NOT_FOUND"
		respondError(c, http.StatusNotFound, code, notFound.Error())
	default:
		log.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", fallback)
	}
}

// currentUser returns the profile loaded by middleware.LoadUser, writing a 401 if absent
func currentUser(c *gin.Context) (models.User, bool) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return models.User{}, false
	}
	return user, true
}

// parseIDParam reads a positive numeric path parameter, writing a 400 if invalid
func parseIDParam(c *gin.Context, name, resource string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid "+resource+" ID")
		return 0, false
	}
	return uint(id), true
}

// NotifyFlag is the notifyCustomer field. Clients send either a JSON boolean or
// the strings "true" and "false"; Set records whether the field was present.
type NotifyFlag struct {
	Value bool
	Set   bool
}

func (f *NotifyFlag) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = NotifyFlag{}
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = NotifyFlag{Value: b, Set: true}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New("notifyCustomer must be a boolean")
	}
	v, err := ParseNotifyFlag(s)
	if err != nil {
		return err
	}
	*f = NotifyFlag{Value: v, Set: true}
	return nil
}

// Or returns the flag value, or def when the field was absent
func (f NotifyFlag) Or(def bool) bool {
	if !f.Set {
		return def
	}
	return f.Value
}

// ParseNotifyFlag accepts "true" and "false" in any case
func ParseNotifyFlag(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, errors.New("notifyCustomer must be true or false")
}

// DateParam accepts either a full RFC 3339 timestamp or a plain YYYY-MM-DD date
type DateParam struct {
	Time *time.Time
}

func (d *DateParam) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		d.Time = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New("date must be a string")
	}
	t, err := parseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, errors.New("invalid date: " + raw)
	}
	return &t, nil
}
