package catalog

import (
	"time"

	"github.com/Thanush-41/AgriXchange/shared/models"
)

// endingSoonWindow is how close to its end a listing is flagged
const endingSoonWindow = time.Hour

// Stats summarises the live auctions board
type Stats struct {
	ActiveAuctions int
	Bidders        int
	TotalBids      int
	HighestBid     float64
}

// Summarize computes board statistics over listings
func Summarize(listings []models.Listing) Stats {
	s := Stats{ActiveAuctions: len(listings)}
	for _, l := range listings {
		s.Bidders += l.Participants
		s.TotalBids += l.BidCount
		if l.CurrentBid > s.HighestBid {
			s.HighestBid = l.CurrentBid
		}
	}
	return s
}

// EndingSoon reports whether the listing's auction ends within the hour
func EndingSoon(l models.Listing, now time.Time) bool {
	if l.BiddingEndTime == nil {
		return false
	}
	left := l.BiddingEndTime.Sub(now)
	return left > 0 && left < endingSoonWindow
}

// TimeLeft is the display countdown of a listing
func TimeLeft(l models.Listing, now time.Time) string {
	if l.BiddingEndTime == nil {
		return l.TimeLeft
	}
	return models.TimeLeft(l.BiddingEndTime.Sub(now))
}
