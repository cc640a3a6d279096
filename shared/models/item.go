package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// ProductType separates fixed-price retail products from auctioned wholesale lots
type ProductType string

// ProductType constants
const (
	ProductTypeRetail    ProductType = "retail"
	ProductTypeWholesale ProductType = "wholesale"
)

// BiddingStatus constants
const (
	BiddingStatusActive = "active"
	BiddingStatusClosed = "closed"
)

// Location is where a product is grown or stored
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// Product is a catalog entry as served by the products API.
// Wholesale products carry the bidding fields, retail products the price fields.
type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Category    string      `json:"category"`
	Description string      `json:"description,omitempty"`
	Images      []string    `json:"images,omitempty"`
	FarmerID    string      `json:"farmerId"`
	Farmer      *User       `json:"farmer,omitempty"`
	Location    Location    `json:"location"`
	Type        ProductType `json:"type"`
	Unit        string      `json:"unit"`
	Quantity    float64     `json:"quantity"`
	IsActive    bool        `json:"isActive"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`

	// retail
	Price            float64 `json:"price,omitempty"`
	MinOrderQuantity float64 `json:"minOrderQuantity,omitempty"`

	// wholesale
	StartingPrice      float64    `json:"startingPrice,omitempty"`
	QualityCertificate string     `json:"qualityCertificate,omitempty"`
	BiddingEndTime     *time.Time `json:"biddingEndTime,omitempty"`
	BiddingStatus      string     `json:"biddingStatus,omitempty"`
}

// Listing is a wholesale product open for bidding, with live auction metadata
type Listing struct {
	Product
	CurrentBid   float64  `json:"currentBid"`
	BidCount     int      `json:"bidCount"`
	Participants int      `json:"participants"`
	TimeLeft     string   `json:"timeLeft,omitempty"`
	BiddingRoom  *RoomRef `json:"biddingRoom,omitempty"`
}

// RoomID returns the id of the listing's bidding room, or "" when it has none.
// It is never the listing id.
func (l Listing) RoomID() string {
	if l.BiddingRoom == nil {
		return ""
	}
	return l.BiddingRoom.ID
}

// RoomRef references a bidding room. The API sends it either populated
// ({"_id": "...", ...}) or as a bare id string.
type RoomRef struct {
	ID string `json:"_id"`
}

// UnmarshalJSON accepts both the populated and the bare-id forms
func (r *RoomRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.ID)
	}
	var populated struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &populated); err != nil {
		return err
	}
	r.ID = populated.ID
	return nil
}
