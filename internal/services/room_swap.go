package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/roomsvc/reservations-backend/internal/config"
	"github.com/roomsvc/reservations-backend/internal/database"
	"github.com/roomsvc/reservations-backend/internal/models"
)

// RoomSwapService exchanges the occupants of two rooms and records the
// swap for auditing.
type RoomSwapService struct {
	stores database.Stores
	cfg    *config.Config
	logger *logrus.Logger
}

// NewRoomSwapService creates a new RoomSwapService.
func NewRoomSwapService(stores database.Stores, cfg *config.Config, logger *logrus.Logger) *RoomSwapService {
	return &RoomSwapService{stores: stores, cfg: cfg, logger: logger}
}

// Swap exchanges the guests of two occupied rooms of the same type. Both
// rooms must be swappable and outside the swap cooldown.
func (s *RoomSwapService) Swap(numberOne, hotelOne, numberTwo, hotelTwo string) error {
	now := time.Now()

	return s.stores.Transact(func(tx database.Stores) error {
		one, err := tx.Rooms().Get(numberOne, hotelOne)
		if err != nil {
			return fmt.Errorf("room %s at %s: %w", numberOne, hotelOne, err)
		}
		two, err := tx.Rooms().Get(numberTwo, hotelTwo)
		if err != nil {
			return fmt.Errorf("room %s at %s: %w", numberTwo, hotelTwo, err)
		}

		if one.ID == two.ID {
			return fmt.Errorf("cannot swap room %s with itself", one.Number)
		}
		if one.RoomType != two.RoomType {
			return fmt.Errorf("rooms are different types (%s vs %s)", one.RoomType, two.RoomType)
		}
		if !one.Swappable() {
			return fmt.Errorf("room %s is not swappable", one.Number)
		}
		if !two.Swappable() {
			return fmt.Errorf("room %s is not swappable", two.Number)
		}
		if one.InCooldown(s.cfg.SwapCooldown, now) {
			return fmt.Errorf("room %s swapped too recently", one.Number)
		}
		if two.InCooldown(s.cfg.SwapCooldown, now) {
			return fmt.Errorf("room %s swapped too recently", two.Number)
		}

		guestOne, err := tx.Guests().ByID(*one.GuestID)
		if err != nil {
			return err
		}
		guestTwo, err := tx.Guests().ByID(*two.GuestID)
		if err != nil {
			return err
		}

		one.GuestID, two.GuestID = two.GuestID, one.GuestID
		one.SPTicketID, two.SPTicketID = two.SPTicketID, one.SPTicketID
		one.Primary, two.Primary = two.Primary, one.Primary
		one.Secondary, two.Secondary = two.Secondary, one.Secondary
		one.CheckIn, two.CheckIn = two.CheckIn, one.CheckIn
		one.CheckOut, two.CheckOut = two.CheckOut, one.CheckOut
		one.SwapTime = &now
		two.SwapTime = &now

		guestOne.AssignRoom(two)
		guestOne.CanLogin = s.cfg.VisibleHotel(two.Hotel)
		guestTwo.AssignRoom(one)
		guestTwo.CanLogin = s.cfg.VisibleHotel(one.Hotel)

		if err := tx.Rooms().Save(one); err != nil {
			return err
		}
		if err := tx.Rooms().Save(two); err != nil {
			return err
		}
		if err := tx.Guests().Save(guestOne); err != nil {
			return err
		}
		if err := tx.Guests().Save(guestTwo); err != nil {
			return err
		}

		swap := &models.Swap{
			RoomOneID:  one.ID,
			RoomTwoID:  two.ID,
			GuestOneID: guestOne.ID,
			GuestTwoID: guestTwo.ID,
		}
		if err := tx.Swaps().Create(swap); err != nil {
			return err
		}

		s.logger.WithFields(logrus.Fields{
			"room_one": one.Number,
			"room_two": two.Number,
		}).Info("Swapped rooms")
		return nil
	})
}
