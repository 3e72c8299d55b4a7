package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// nextBillNumber yields INV-YYYYMM-NNNN, continuing the clinic's sequence
// for the month of issued.
func (s *Service) nextBillNumber(ctx context.Context, tx *gorm.DB, clinicID snowflake.ID, issued time.Time) (string, error) {
	prefix := "INV-" + issued.Format("200601") + "-"
	last, err := s.repo.LastBillNumber(ctx, tx, clinicID, prefix)
	if err != nil {
		return "", err
	}
	seq := 0
	if last != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
		if err == nil {
			seq = n
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq+1), nil
}
