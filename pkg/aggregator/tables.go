package aggregator

import (
	"encoding/json"
	"strconv"

	"github.com/Sternrassler/rmp-client/pkg/export"
	"github.com/Sternrassler/rmp-client/pkg/rmp"
)

// Table names used by exporters that name their tables.
const (
	ProfessorsTableName = "professors"
	ReviewsTableName    = "reviews"
)

// ProfessorColumns are the professor table columns, named after the API fields.
var ProfessorColumns = []string{
	"tDept",
	"tSid",
	"institution_name",
	"tFname",
	"tMiddlename",
	"tLname",
	"tid",
	"tNumRatings",
	"rating_class",
	"contentType",
	"categoryType",
	"overall_rating",
}

// ReviewColumns are the review table columns: the API fields followed by the
// fields copied from the owning professor.
var ReviewColumns = []string{
	"attendance",
	"helpCount",
	"id",
	"notHelpCount",
	"onlineClass",
	"quality",
	"rClarity",
	"rClass",
	"rComments",
	"rDate",
	"rEasy",
	"rEasyString",
	"rHelpful",
	"rInterest",
	"rOverall",
	"rOverallString",
	"rStatus",
	"rTextBookUse",
	"rTimestamp",
	"rWouldTakeAgain",
	"sId",
	"takenForCredit",
	"teacherGrade",
	"teacherRatingTags",
	"tFname",
	"tLname",
	"tDept",
	"tid",
}

// ProfessorTable converts professors to an export table.
func ProfessorTable(profs []rmp.Professor) export.Table {
	rows := make([][]export.Cell, 0, len(profs))
	for _, p := range profs {
		rows = append(rows, []export.Cell{
			export.Str(p.Department),
			p.SchoolID.Ptr(),
			export.Str(p.InstitutionName),
			export.Str(p.FirstName),
			export.Str(p.MiddleName),
			export.Str(p.LastName),
			export.Str(strconv.FormatInt(p.ID, 10)),
			p.NumRatings.Ptr(),
			export.Str(p.RatingClass),
			export.Str(p.ContentType),
			export.Str(p.CategoryType),
			p.OverallRating.Ptr(),
		})
	}
	return export.Table{Name: ProfessorsTableName, Columns: ProfessorColumns, Rows: rows}
}

// ReviewTable converts reviews to an export table.
func ReviewTable(reviews []rmp.Review) export.Table {
	rows := make([][]export.Cell, 0, len(reviews))
	for _, r := range reviews {
		rows = append(rows, []export.Cell{
			r.Attendance.Ptr(),
			r.HelpCount.Ptr(),
			r.ID.Ptr(),
			r.NotHelpCount.Ptr(),
			r.OnlineClass.Ptr(),
			r.Quality.Ptr(),
			r.Clarity.Ptr(),
			r.Class.Ptr(),
			r.Comments.Ptr(),
			r.Date.Ptr(),
			r.Easy.Ptr(),
			r.EasyString.Ptr(),
			r.Helpful.Ptr(),
			r.Interest.Ptr(),
			r.Overall.Ptr(),
			r.OverallString.Ptr(),
			r.Status.Ptr(),
			r.TextbookUse.Ptr(),
			r.Timestamp.Ptr(),
			r.WouldTakeAgain.Ptr(),
			r.SchoolID.Ptr(),
			r.TakenForCredit.Ptr(),
			r.Grade.Ptr(),
			tagsCell(r.Tags),
			export.Str(r.ProfessorFirstName),
			export.Str(r.ProfessorLastName),
			export.Str(r.ProfessorDepartment),
			export.Str(strconv.FormatInt(r.ProfessorID, 10)),
		})
	}
	return export.Table{Name: ReviewsTableName, Columns: ReviewColumns, Rows: rows}
}

// tagsCell writes tags as a JSON array; no tags is a missing value.
func tagsCell(tags rmp.StringList) export.Cell {
	if tags == nil {
		return nil
	}
	data, err := json.Marshal([]string(tags))
	if err != nil {
		return nil
	}
	return export.Str(string(data))
}
