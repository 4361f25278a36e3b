package review

import "time"

type Review struct {
	ID        int64     `json:"id"`
	PatientID string    `json:"patient_id"`
	StaffID   string    `json:"staff_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary is the list of reviews of one doctor or staff member with their
// average rating, zero when there are none.
type Summary struct {
	StaffID       string    `json:"staff_id"`
	Reviews       []*Review `json:"reviews"`
	Count         int       `json:"count"`
	AverageRating float64   `json:"average_rating"`
}

func summarize(staffID string, reviews []*Review) *Summary {
	s := &Summary{StaffID: staffID, Reviews: reviews, Count: len(reviews)}
	if s.Reviews == nil {
		s.Reviews = []*Review{}
	}
	if len(reviews) == 0 {
		return s
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	s.AverageRating = float64(total) / float64(len(reviews))
	return s
}
