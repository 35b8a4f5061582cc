package service

import (
	"fmt"
	"log"
	"time"

	"spacely/internal/db"
	"spacely/internal/repository"
)

type JobService struct {
	Repo *repository.JobRepository
}

func NewJobService(repo *repository.JobRepository) *JobService {
	return &JobService{Repo: repo}
}

// CompleteFinishedBookings marks confirmed bookings whose last occupied day
// has elapsed as completed.
func (s *JobService) CompleteFinishedBookings() error {
	log.Println("Cron Job: Checking for bookings to mark as 'completed'...")

	bookingIDs, err := s.Repo.GetConfirmedBookingIDsPastEnd()
	if err != nil {
		return fmt.Errorf("cron job: failed to get bookings past end date: %w", err)
	}

	if len(bookingIDs) == 0 {
		log.Println("Cron Job: No bookings found past their end date.")
		return nil
	}

	log.Printf("Cron Job: Found %d bookings to mark as 'completed'. IDs: %v", len(bookingIDs), bookingIDs)

	err = s.Repo.UpdateBookingStatuses(bookingIDs, db.BookingCompleted)
	if err != nil {
		return fmt.Errorf("cron job: failed to update booking statuses: %w", err)
	}

	log.Printf("Cron Job: Successfully updated %d bookings to 'completed'.", len(bookingIDs))
	return nil
}

// PurgeExpiredHolds deletes Reserved rows created before the given time.
func (s *JobService) PurgeExpiredHolds(before time.Time) (int64, error) {
	return s.Repo.DeleteExpiredReservedHolds(before)
}

// PurgeStaleDrafts deletes drafts not saved since the given time.
func (s *JobService) PurgeStaleDrafts(before time.Time) (int64, error) {
	return s.Repo.DeleteStaleDrafts(before)
}

// PurgeExpiredOTPCodes deletes verification codes past expiry.
func (s *JobService) PurgeExpiredOTPCodes() (int64, error) {
	return s.Repo.DeleteExpiredOTPCodes()
}
