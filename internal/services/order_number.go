package services

import (
	"context"
	"crypto/rand"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	orderNumberLength   = 8
	orderNumberCharset  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	orderNumberAttempts = 5
)

func randomOrderNumber() (string, error) {
	buf := make([]byte, orderNumberLength)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to read random bytes")
	}
	for i, b := range buf {
		buf[i] = orderNumberCharset[int(b)%len(orderNumberCharset)]
	}
	return string(buf), nil
}

// fallbackOrderNumber derives a practically unique number from the current
// timestamp when random generation keeps colliding
func fallbackOrderNumber(now time.Time) (string, error) {
	base := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	suffix, err := randomOrderNumber()
	if err != nil {
		return "", err
	}
	number := base + suffix
	if len(number) > orderNumberLength+4 {
		number = number[len(number)-orderNumberLength-4:]
	}
	return number, nil
}

// generateOrderNumber produces an order number that does not collide with
// any existing order. Random candidates are tried a bounded number of
// times before falling back to a timestamp-derived number.
func (s *OrderService) generateOrderNumber(ctx context.Context) (string, error) {
	for i := 0; i < orderNumberAttempts; i++ {
		candidate, err := randomOrderNumber()
		if err != nil {
			return "", err
		}
		exists, err := s.orderRepo.OrderNumberExists(ctx, candidate)
		if err != nil {
			return "", errors.Wrap(err, "failed to check order number uniqueness")
		}
		if !exists {
			return candidate, nil
		}
	}
	return fallbackOrderNumber(s.now())
}
