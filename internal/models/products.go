package models

import (
	"fmt"
	"strings"
)

// Hotel names as they appear on room inventory and derived from products.
const (
	HotelBallys = "Ballys"
	HotelNugget = "Nugget"
)

// UnknownProductError is returned when a product string cannot be mapped to
// a room type or hotel.
type UnknownProductError struct {
	Product string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product: %s", e.Product)
}

// RoomProducts maps each internal room type code to the hotel it belongs to
// and the external product names that sell it. This is the room breakdown
// key for the event; it changes between events, not at runtime.
var RoomProducts = map[string]struct {
	Hotel    string
	Products []string
}{
	"Queen": {
		Hotel: HotelBallys,
		Products: []string{
			"04.1 Bally's - Standard 2 Queen",
			"04.2 Bally's - Standard 2 Queen (DTS)",
			"05.1 Bally's - Art Room 2 Queen",
			"05.2 Bally's - Art Room 2 Queen (DTS)",
		},
	},
	"King": {
		Hotel: HotelBallys,
		Products: []string{
			"01.1 Bally's - Standard King",
			"01.2 Bally's - Standard King (DTS)",
			"02.1 Bally's - Art Room King",
			"02.2 Bally's - Art Room King (DTS)",
		},
	},
	"Queen Sierra Suite": {
		Hotel: HotelBallys,
		Products: []string{
			"09.1 Bally's - Queen Sierra Suite",
			"09.2 Bally's - Queen Sierra Suite (DTS)",
		},
	},
	"King Sierra Suite": {
		Hotel: HotelBallys,
		Products: []string{
			"08.1 Bally's - King Sierra Suite",
			"08.2 Bally's - King Sierra Suite (DTS)",
		},
	},
	"Tahoe Suite": {
		Hotel: HotelBallys,
		Products: []string{
			"10.1 Bally's - Tahoe Suite",
			"10.2 Bally's - Tahoe Suite (DTS)",
		},
	},
	"Executive Suite": {
		Hotel: HotelBallys,
		Products: []string{
			"07.1 Bally's - Executive King Suite",
			"07.2 Bally's - Executive King Suite (DTS)",
		},
	},
	"Standard King": {
		Hotel: HotelNugget,
		Products: []string{
			"11.1 Nugget - Sunset King",
			"11.2 Nugget - Sunset King (DTS)",
			"17.1 Nugget - Heavenly King",
			"17.2 Nugget - Heavenly King (DTS)",
		},
	},
	"Standard Double Queen": {
		Hotel: HotelNugget,
		Products: []string{
			"14.1 Nugget - Sunset 2 Queen",
			"14.2 Nugget - Sunset 2 Queen (DTS)",
		},
	},
	"Double Queen Lakeview": {
		Hotel: HotelNugget,
		Products: []string{
			"15.1 Nugget - Sunset Lakeview 2 Queens",
			"15.2 Nugget - Sunset Lakeview 2 Queens (DTS)",
			"20.1 Nugget - Heavenly Lakeview 2 Queens",
			"20.2 Nugget - Heavenly Lakeview 2 Queens (DTS)",
		},
	},
	"King Lakeview Balcony": {
		Hotel: HotelNugget,
		Products: []string{
			"19.1 Nugget - Heavenly Lakeview Balcony King",
			"19.2 Nugget - Heavenly Lakeview Balcony King (DTS)",
		},
	},
	"Sunset King Suite": {
		Hotel: HotelNugget,
		Products: []string{
			"16.1 Nugget - Sunset King Suite",
			"16.2 Nugget - Sunset King Suite (DTS)",
		},
	},
}

// ShortProductCode maps an external product name to its internal room type
// code. A bare room type code maps to itself.
func ShortProductCode(product string) (string, error) {
	for code, detail := range RoomProducts {
		for _, p := range detail.Products {
			if p == product {
				return code, nil
			}
		}
	}

	if _, ok := RoomProducts[product]; ok {
		return product, nil
	}

	return "", &UnknownProductError{Product: product}
}

// DeriveHotel maps a product name to its hotel. Product names carry the
// hotel name after a numeric SKU prefix, so this matches on containment.
func DeriveHotel(product string) (string, error) {
	lower := strings.ToLower(product)

	if strings.Contains(lower, "nugget") {
		return HotelNugget, nil
	}
	if strings.Contains(lower, "bally") {
		return HotelBallys, nil
	}

	return "", &UnknownProductError{Product: product}
}

// AllRoomProducts returns the set of every product name that sells a room.
func AllRoomProducts() map[string]struct{} {
	products := make(map[string]struct{})
	for _, detail := range RoomProducts {
		for _, p := range detail.Products {
			products[p] = struct{}{}
		}
	}
	return products
}

// RoomTypeCodes returns the internal room type codes in the catalog.
func RoomTypeCodes() []string {
	codes := make([]string, 0, len(RoomProducts))
	for code := range RoomProducts {
		codes = append(codes, code)
	}
	return codes
}
