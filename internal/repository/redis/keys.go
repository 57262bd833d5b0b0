package redis

import (
	"fmt"
	"time"
)

const ns = "dinego:v1"

// NotificationsChannel carries notifications when the redis driver is used.
const NotificationsChannel = ns + ":notifications"

func KeySlots(restaurantID int64, weekday int) string {
	return fmt.Sprintf("%s:restaurant:%d:slots:%d", ns, restaurantID, weekday)
}

func KeyAvailability(restaurantID int64, date time.Time) string {
	return fmt.Sprintf("%s:restaurant:%d:availability:%s", ns, restaurantID, date.Format(time.DateOnly))
}

func KeyMenu(restaurantID int64) string {
	return fmt.Sprintf("%s:restaurant:%d:menu", ns, restaurantID)
}

func KeyIdemBooking(customerID int64, idemKey string) string {
	return fmt.Sprintf("%s:idem:bookings:%d:%s", ns, customerID, idemKey)
}

func KeyIdemOrder(buyerID int64, idemKey string) string {
	return fmt.Sprintf("%s:idem:orders:%d:%s", ns, buyerID, idemKey)
}

func KeyRateLimit(scope string, userID int64) string {
	return fmt.Sprintf("%s:rl:%s:%d", ns, scope, userID)
}
