package models

import "time"

type Comment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// RatingAggregate accumulates 1-5 star submissions for one spot.
type RatingAggregate struct {
	Sum   int `json:"sum"`
	Count int `json:"count"`
}

// SpotRating is the derived view of a RatingAggregate. Average is nil while
// there are no ratings.
type SpotRating struct {
	Average *float64 `json:"average"`
	Count   int      `json:"count"`
}

func (r RatingAggregate) Rating() SpotRating {
	if r.Count == 0 {
		return SpotRating{Count: 0}
	}
	avg := float64(r.Sum) / float64(r.Count)
	return SpotRating{Average: &avg, Count: r.Count}
}

// SpotSummary gathers every session-derived value for one spot.
type SpotSummary struct {
	SpotID     string     `json:"spotId"`
	Rating     SpotRating `json:"rating"`
	ShotCount  int        `json:"shotCount"`
	HasShot    bool       `json:"hasShot"`
	IsFavorite bool       `json:"isFavorite"`
	Comments   []Comment  `json:"comments"`
}
