package rmp

import (
	"encoding/json"
	"fmt"
)

// Professor is one row of the professor listing.
type Professor struct {
	ID              int64  `json:"tid"`
	FirstName       string `json:"tFname"`
	MiddleName      string `json:"tMiddlename"`
	LastName        string `json:"tLname"`
	Department      string `json:"tDept"`
	SchoolID        Scalar `json:"tSid"`
	InstitutionName string `json:"institution_name"`
	NumRatings      Scalar `json:"tNumRatings"`
	RatingClass     string `json:"rating_class"`
	OverallRating   Scalar `json:"overall_rating"`
	ContentType     string `json:"contentType"`
	CategoryType    string `json:"categoryType"`
}

// RatingCount returns tNumRatings when the listing carried a usable value.
func (p Professor) RatingCount() (int, bool) {
	n, err := p.NumRatings.Int64()
	if err != nil || n < 0 {
		return 0, false
	}
	return int(n), true
}

// UnmarshalJSON requires tid and tolerates it being quoted.
func (p *Professor) UnmarshalJSON(data []byte) error {
	type plain Professor
	var wire struct {
		plain
		TID Scalar `json:"tid"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if !wire.TID.Valid {
		return fmt.Errorf("%w: tid", ErrMissingField)
	}
	id, err := wire.TID.Int64()
	if err != nil {
		return fmt.Errorf("tid: %w", err)
	}

	*p = Professor(wire.plain)
	p.ID = id
	return nil
}

// Review is one rating of a professor. Every API field is optional; the
// Professor* fields are copied from the owning professor during collection.
type Review struct {
	ID             Scalar     `json:"id"`
	Date           Scalar     `json:"rDate"`
	Class          Scalar     `json:"rClass"`
	Comments       Scalar     `json:"rComments"`
	Overall        Scalar     `json:"rOverall"`
	OverallString  Scalar     `json:"rOverallString"`
	Helpful        Scalar     `json:"rHelpful"`
	Clarity        Scalar     `json:"rClarity"`
	Easy           Scalar     `json:"rEasy"`
	EasyString     Scalar     `json:"rEasyString"`
	Interest       Scalar     `json:"rInterest"`
	Quality        Scalar     `json:"quality"`
	WouldTakeAgain Scalar     `json:"rWouldTakeAgain"`
	Grade          Scalar     `json:"teacherGrade"`
	Attendance     Scalar     `json:"attendance"`
	OnlineClass    Scalar     `json:"onlineClass"`
	TextbookUse    Scalar     `json:"rTextBookUse"`
	TakenForCredit Scalar     `json:"takenForCredit"`
	HelpCount      Scalar     `json:"helpCount"`
	NotHelpCount   Scalar     `json:"notHelpCount"`
	Tags           StringList `json:"teacherRatingTags"`
	Timestamp      Scalar     `json:"rTimestamp"`
	Status         Scalar     `json:"rStatus"`
	SchoolID       Scalar     `json:"sId"`

	ProfessorID         int64  `json:"-"`
	ProfessorFirstName  string `json:"-"`
	ProfessorLastName   string `json:"-"`
	ProfessorDepartment string `json:"-"`
}

// WithProfessor returns a copy of r tagged with p's identifying fields.
func (r Review) WithProfessor(p Professor) Review {
	r.ProfessorID = p.ID
	r.ProfessorFirstName = p.FirstName
	r.ProfessorLastName = p.LastName
	r.ProfessorDepartment = p.Department
	return r
}

// ProfessorPage is one page of the professor listing.
type ProfessorPage struct {
	Remaining  int
	Professors []Professor
}

// Total is the size of the whole listing as implied by this page.
func (p *ProfessorPage) Total() int {
	return p.Remaining + len(p.Professors)
}

// RatingsPage is one page of a professor's ratings.
type RatingsPage struct {
	Remaining int
	Ratings   []Review
}

// Total is the number of ratings implied by this page.
func (p *RatingsPage) Total() int {
	return p.Remaining + len(p.Ratings)
}
