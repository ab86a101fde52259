package query

// FieldType decides how a bare request value is matched against a column.
type FieldType int

const (
	// Text matches a case-insensitive substring.
	Text FieldType = iota
	// Enum matches a case-insensitive exact value.
	Enum
	// Number matches equality or a range operator.
	Number
	// Date matches the calendar day or a range operator.
	Date
	// ID matches an exact integer key.
	ID
	// Bool matches true/false.
	Bool
	// Tags matches a substring of any element of a text array.
	Tags
)

func (t FieldType) ranged() bool {
	return t == Number || t == Date || t == ID
}

// Field binds a request attribute to a column.
type Field struct {
	Column string
	Type   FieldType
}

// SalaryRange names the columns used for overlap matching of minSalary/maxSalary.
type SalaryRange struct {
	MinColumn string
	MaxColumn string
}

// Schema is the allow-list of filterable, sortable and selectable attributes
// of one searchable entity.
type Schema struct {
	Fields map[string]Field
	// Keyword holds the SQL expressions searched by the keyword parameter.
	Keyword []string
	// Columns is the default projection. Nil selects every column.
	Columns      []string
	IDColumn     string
	DefaultSort  string
	DefaultLimit int
	Salary       *SalaryRange
}

// WithLimit returns a copy of s using a different default page size.
func (s Schema) WithLimit(limit int) Schema {
	s.DefaultLimit = limit
	return s
}

func (s Schema) idColumn() string {
	if s.IDColumn != "" {
		return s.IDColumn
	}
	return "id"
}

var JobSchema = Schema{
	Fields: map[string]Field{
		"id":                  {"id", ID},
		"title":               {"title", Text},
		"description":         {"description", Text},
		"location":            {"location", Text},
		"type":                {"type", Enum},
		"experienceLevel":     {"experience_level", Enum},
		"status":              {"status", Enum},
		"salaryRange":         {"salary_range", Text},
		"minSalary":           {"min_salary", Number},
		"maxSalary":           {"max_salary", Number},
		"skillsRequired":      {"skills_required", Tags},
		"companyId":           {"company_id", ID},
		"employerId":          {"employer_id", ID},
		"applicationDeadline": {"application_deadline", Date},
		"postedAt":            {"posted_at", Date},
		"createdAt":           {"created_at", Date},
		"updatedAt":           {"updated_at", Date},
	},
	Keyword:      []string{"title", "description"},
	DefaultSort:  "-createdAt",
	DefaultLimit: 10,
	Salary:       &SalaryRange{MinColumn: "min_salary", MaxColumn: "max_salary"},
}

var FeedSchema = JobSchema.WithLimit(20)

var CompanySchema = Schema{
	Fields: map[string]Field{
		"id":             {"id", ID},
		"name":           {"name", Text},
		"description":    {"description", Text},
		"location":       {"location", Text},
		"website":        {"website", Text},
		"employeesCount": {"employees_count", Enum},
		"ownerId":        {"owner_id", ID},
		"createdAt":      {"created_at", Date},
	},
	Keyword:      []string{"name", "description"},
	DefaultSort:  "-createdAt",
	DefaultLimit: 10,
}

// CandidateSchema searches candidate_profiles joined with users.
var CandidateSchema = Schema{
	Fields: map[string]Field{
		"id":        {"candidate_profiles.id", ID},
		"userId":    {"candidate_profiles.user_id", ID},
		"name":      {"users.name", Text},
		"title":     {"candidate_profiles.title", Text},
		"location":  {"candidate_profiles.location", Text},
		"about":     {"candidate_profiles.about", Text},
		"skills":    {"candidate_profiles.skills", Tags},
		"createdAt": {"candidate_profiles.created_at", Date},
	},
	Keyword: []string{
		"users.name",
		"candidate_profiles.title",
		"candidate_profiles.about",
		"array_to_string(candidate_profiles.skills, ',')",
	},
	Columns:      []string{"candidate_profiles.*"},
	IDColumn:     "candidate_profiles.id",
	DefaultSort:  "-createdAt",
	DefaultLimit: 10,
}

var UserSchema = Schema{
	Fields: map[string]Field{
		"id":        {"id", ID},
		"name":      {"name", Text},
		"email":     {"email", Text},
		"role":      {"role", Enum},
		"status":    {"status", Enum},
		"lastLogin": {"last_login", Date},
		"createdAt": {"created_at", Date},
	},
	Keyword: []string{"name", "email"},
	Columns: []string{
		"id", "name", "email", "role", "status", "avatar_url", "phone",
		"last_login", "created_at", "updated_at",
	},
	DefaultSort:  "-createdAt",
	DefaultLimit: 20,
}

var ApplicationSchema = Schema{
	Fields: map[string]Field{
		"id":          {"id", ID},
		"jobId":       {"job_id", ID},
		"candidateId": {"candidate_id", ID},
		"status":      {"status", Enum},
		"createdAt":   {"created_at", Date},
		"updatedAt":   {"updated_at", Date},
	},
	DefaultSort:  "-createdAt",
	DefaultLimit: 10,
}

var NotificationSchema = Schema{
	Fields: map[string]Field{
		"type":       {"type", Enum},
		"entityType": {"entity_type", Enum},
		"isRead":     {"is_read", Bool},
		"createdAt":  {"created_at", Date},
	},
	Keyword:      []string{"title", "message"},
	DefaultSort:  "-createdAt",
	DefaultLimit: 20,
}
