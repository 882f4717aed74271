package notify

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vee4group/order-tracker-api/models"
)

const (
	brandName   = "Vee4 Group"
	teamName    = "Vee4 Team"
	brandFooter = "Vee4 Group - Custom Metal Solutions"
	supportMail = "info@vee4group.com"
)

// FormatDate renders a delivery date as "Monday, January 2, 2006".
func FormatDate(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

// DaysRemaining is the whole number of days until date, rounded up.
func DaysRemaining(date, now time.Time) int {
	return int(math.Ceil(date.Sub(now).Hours() / 24))
}

// HumanizeStatus turns "laser_cutting" into "Laser Cutting".
func HumanizeStatus(s models.Status) string {
	return s.Label()
}

var statusEmoji = map[models.Status]string{
	models.StatusPending:            "⏳",
	models.StatusApproved:           "✅",
	models.StatusRejected:           "❌",
	models.StatusCancelled:          "🔄",
	models.StatusDesigning:          "🎨",
	models.StatusLaserCutting:       "⚡",
	models.StatusMetalBending:       "🔧",
	models.StatusFabricationWelding: "🔥",
	models.StatusFinishing:          "✨",
	models.StatusPowderCoating:      "🎭",
	models.StatusAssembling:         "🔩",
	models.StatusQualityCheck:       "🔍",
	models.StatusDispatch:           "🚚",
	models.StatusCompleted:          "🎉",
}

func emojiFor(s models.Status) string {
	if e, ok := statusEmoji[s]; ok {
		return e
	}
	return "📋"
}

func formatMeasure(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func dimensions(o models.Order) string {
	return formatMeasure(o.Width) + "mm × " + formatMeasure(o.Height) + "mm × " + formatMeasure(o.Thickness) + "mm"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
