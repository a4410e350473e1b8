// Package resources holds the screen descriptors of the nine HOA
// collections.
package resources

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zYagamiBR/hoa-helper/internal/dashboard/apiclient"
	"github.com/zYagamiBR/hoa-helper/internal/dashboard/screen"
)

// Building renders a building number as "BL01".
func Building(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("BL%02d", n)
}

// Apartment renders an apartment number as "AP101".
func Apartment(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("AP%03d", n)
}

// Unit renders "BL01 AP101" from a record's building and apartment.
func Unit(r apiclient.Record) string {
	b := Building(int(screen.Amount(r, "building").IntPart()))
	a := Apartment(int(screen.Amount(r, "apartment").IntPart()))
	switch {
	case b == "":
		return a
	case a == "":
		return b
	}
	return b + " " + a
}

func residentLabel(r apiclient.Record) string {
	name := screen.Value(r, "name")
	if unit := Unit(r); unit != "" {
		return name + " (" + unit + ")"
	}
	return name
}

func vendorLabel(r apiclient.Record) string {
	return screen.Value(r, "name")
}

func options(values ...string) []screen.Option {
	out := make([]screen.Option, len(values))
	for i, v := range values {
		out[i] = screen.Option{Value: v, Label: "options." + v}
	}
	return out
}

var (
	paymentTypes    = options("monthly_fee", "maintenance", "fine", "special_assessment")
	paymentMethods  = options("cash", "credit_card", "debit_card", "bank_transfer", "pix", "check")
	paymentStatuses = options("completed", "pending", "cancelled")
	invoiceStatuses = options("pending", "paid", "overdue")
	invoicePriority = options("low", "normal", "high", "urgent")
	billCategories  = options("utilities", "insurance", "maintenance", "security", "cleaning",
		"landscaping", "elevator", "internet", "legal", "accounting", "other")
	billFrequencies     = options("monthly", "quarterly", "semi-annual", "yearly")
	billStatuses        = options("active", "inactive", "suspended")
	levels              = options("low", "medium", "high")
	maintenanceStatuses = options("open", "pending", "in_progress", "completed")
	maintenanceKinds    = options("electrical", "plumbing", "cleaning", "security", "general")
	eventTypes          = options("meeting", "social", "maintenance", "emergency")
	eventStatuses       = options("scheduled", "completed", "cancelled")
	violationStatuses   = options("open", "pending", "in_progress", "resolved", "closed")
	associateStatuses   = []screen.Option{
		{Value: "Active", Label: "options.active"},
		{Value: "Inactive", Label: "options.inactive"},
		{Value: "On Leave", Label: "options.onLeave"},
		{Value: "Terminated", Label: "options.terminated"},
	}
)

// Residents lists the building's residents.
var Residents = screen.Resource{
	Name:  "residents",
	Path:  "/residents",
	Title: "residents.title",
	Fields: []screen.Field{
		{Key: "name", Label: "residents.name", Kind: screen.Text, Required: true},
		{Key: "email", Label: "residents.email", Kind: screen.Email, Required: true},
		{Key: "building", Label: "residents.building", Kind: screen.Integer, Required: true},
		{Key: "apartment", Label: "residents.apartment", Kind: screen.Integer, Required: true},
		{Key: "phone", Label: "residents.phone", Kind: screen.Tel},
	},
	Search: []string{"name", "email", "building", "apartment"},
	Stats: []screen.Stat{
		screen.Count("total", "residents.allResidents", nil),
		screen.Distinct("buildings", "residents.building", "building"),
	},
	ConfirmDelete: "residents.confirmDelete",
}

// Vendors lists service providers.
var Vendors = screen.Resource{
	Name:  "vendors",
	Path:  "/vendors",
	Title: "vendors.title",
	Fields: []screen.Field{
		{Key: "name", Label: "vendors.name", Kind: screen.Text, Required: true},
		{Key: "email", Label: "vendors.email", Kind: screen.Email},
		{Key: "phone", Label: "vendors.phone", Kind: screen.Tel},
		{Key: "address", Label: "vendors.address", Kind: screen.Text},
		{Key: "services", Label: "vendors.services", Kind: screen.TextArea},
		{Key: "contact_person", Label: "vendors.contactPerson", Kind: screen.Text},
	},
	Search: []string{"name", "email", "services", "contact_person"},
	Stats: []screen.Stat{
		screen.Count("total", "vendors.totalVendors", nil),
	},
	ConfirmDelete: "vendors.confirmDelete",
}

// Associates lists HOA employees. Fields are grouped into the five form
// tabs.
var Associates = screen.Resource{
	Name:  "associates",
	Path:  "/associates",
	Title: "associates.title",
	Fields: []screen.Field{
		{Key: "name", Label: "associates.name", Kind: screen.Text, Required: true, Group: "personal"},
		{Key: "email", Label: "associates.email", Kind: screen.Email, Group: "personal"},
		{Key: "phone", Label: "associates.phone", Kind: screen.Tel, Group: "personal"},
		{Key: "mobile", Label: "associates.mobile", Kind: screen.Tel, Group: "personal"},
		{Key: "address", Label: "associates.address", Kind: screen.Text, Group: "personal"},
		{Key: "city", Label: "associates.city", Kind: screen.Text, Group: "personal"},
		{Key: "state", Label: "associates.state", Kind: screen.Text, Group: "personal"},
		{Key: "zip_code", Label: "associates.zipCode", Kind: screen.Text, Group: "personal"},
		{Key: "birth_date", Label: "associates.birthDate", Kind: screen.Date, Group: "personal"},
		{Key: "cpf", Label: "associates.cpf", Kind: screen.Text, Group: "personal"},
		{Key: "rg", Label: "associates.rg", Kind: screen.Text, Group: "personal"},
		{Key: "nationality", Label: "associates.nationality", Kind: screen.Text, Group: "personal"},
		{Key: "marital_status", Label: "associates.maritalStatus", Kind: screen.Text, Group: "personal"},

		{Key: "employee_id", Label: "associates.employeeId", Kind: screen.Text, Group: "employment"},
		{Key: "department", Label: "associates.department", Kind: screen.Text, Required: true, Group: "employment"},
		{Key: "work_area", Label: "associates.workArea", Kind: screen.Text, Required: true, Group: "employment"},
		{Key: "position", Label: "associates.position", Kind: screen.Text, Group: "employment"},
		{Key: "hire_date", Label: "associates.hireDate", Kind: screen.Date, Group: "employment"},
		{Key: "contract_type", Label: "associates.contractType", Kind: screen.Text, Group: "employment"},
		{Key: "work_schedule", Label: "associates.workSchedule", Kind: screen.Text, Group: "employment"},
		{Key: "status", Label: "associates.status", Kind: screen.Select, Default: "Active", Options: associateStatuses, Group: "employment"},

		{Key: "monthly_salary", Label: "associates.monthlySalary", Kind: screen.Number, Group: "financial"},
		{Key: "payment_method", Label: "associates.paymentMethod", Kind: screen.Text, Group: "financial"},
		{Key: "bank_name", Label: "associates.bankName", Kind: screen.Text, Group: "financial"},
		{Key: "bank_agency", Label: "associates.bankAgency", Kind: screen.Text, Group: "financial"},
		{Key: "bank_account", Label: "associates.bankAccount", Kind: screen.Text, Group: "financial"},
		{Key: "pix_key", Label: "associates.pixKey", Kind: screen.Text, Group: "financial"},

		{Key: "emergency_contact_name", Label: "associates.emergencyContactName", Kind: screen.Text, Group: "emergency"},
		{Key: "emergency_contact_relationship", Label: "associates.emergencyContactRelationship", Kind: screen.Text, Group: "emergency"},
		{Key: "emergency_contact_phone", Label: "associates.emergencyContactPhone", Kind: screen.Tel, Group: "emergency"},
		{Key: "emergency_contact_address", Label: "associates.emergencyContactAddress", Kind: screen.Text, Group: "emergency"},

		{Key: "education_level", Label: "associates.educationLevel", Kind: screen.Text, Group: "additional"},
		{Key: "certifications", Label: "associates.certifications", Kind: screen.TextArea, Group: "additional"},
		{Key: "skills", Label: "associates.skills", Kind: screen.TextArea, Group: "additional"},
		{Key: "languages", Label: "associates.languages", Kind: screen.Text, Group: "additional"},
		{Key: "performance_rating", Label: "associates.performanceRating", Kind: screen.Text, Group: "additional"},
		{Key: "last_evaluation_date", Label: "associates.lastEvaluationDate", Kind: screen.Date, Group: "additional"},
		{Key: "notes", Label: "associates.notes", Kind: screen.TextArea, Group: "additional"},
	},
	Search: []string{"name", "department", "position"},
	Filters: []screen.Filter{
		{Key: "status", Label: "associates.status", Options: associateStatuses},
	},
	Stats: []screen.Stat{
		screen.Count("total", "associates.totalAssociates", nil),
		screen.Count("active", "associates.activeEmployees", screen.Is("status", "Active")),
		screen.Distinct("departments", "associates.department", "department"),
		screen.Sum("payroll", "associates.monthlySalary", "monthly_salary", nil),
	},
	ConfirmDelete: "associates.confirmDelete",
}

// Payments lists resident payments.
var Payments = screen.Resource{
	Name:  "payments",
	Path:  "/payments",
	Title: "payments.title",
	Fields: []screen.Field{
		{Key: "resident_id", Label: "payments.resident", Kind: screen.Select, Required: true, Numeric: true,
			Source: &screen.OptionSource{Path: "/residents", Label: residentLabel}},
		{Key: "amount", Label: "payments.amount", Kind: screen.Number, Required: true},
		{Key: "payment_type", Label: "payments.type", Kind: screen.Select, Required: true, Default: "monthly_fee", Options: paymentTypes},
		{Key: "payment_method", Label: "payments.method", Kind: screen.Select, Options: paymentMethods},
		{Key: "payment_date", Label: "payments.date", Kind: screen.Date},
		{Key: "due_date", Label: "payments.dueDate", Kind: screen.Date},
		{Key: "status", Label: "payments.status", Kind: screen.Select, Default: "completed", Options: paymentStatuses},
		{Key: "reference_number", Label: "payments.reference", Kind: screen.Text},
		{Key: "description", Label: "payments.description", Kind: screen.TextArea},
	},
	Search: []string{"resident_name", "payment_type"},
	Filters: []screen.Filter{
		{Key: "payment_method", Label: "payments.filterByMethod", Options: paymentMethods},
		{Key: "status", Label: "payments.filterByStatus", Options: paymentStatuses},
		{Key: "payment_type", Label: "payments.filterByType", Options: paymentTypes},
	},
	Stats: []screen.Stat{
		screen.Sum("collected", "payments.totalCollected", "amount", nil),
		{Name: "this_month", Label: "payments.paymentsThisMonth", Compute: thisMonth("payment_date")},
		screen.Count("total", "payments.totalPayments", nil),
	},
	ConfirmDelete: "payments.confirmDelete",
}

// Invoices lists vendor invoices.
var Invoices = screen.Resource{
	Name:  "invoices",
	Path:  "/invoices",
	Title: "invoices.title",
	Fields: []screen.Field{
		{Key: "invoice_number", Label: "invoices.invoiceNumber", Kind: screen.Text, Required: true},
		{Key: "vendor_id", Label: "invoices.vendor", Kind: screen.Select, Required: true, Numeric: true,
			Source: &screen.OptionSource{Path: "/vendors", Label: vendorLabel}},
		{Key: "amount", Label: "invoices.amount", Kind: screen.Number, Required: true},
		{Key: "reason", Label: "invoices.reason", Kind: screen.Text, Required: true},
		{Key: "authorized_by", Label: "invoices.authorizedBy", Kind: screen.Text, Required: true},
		{Key: "invoice_date", Label: "invoices.invoiceDate", Kind: screen.Date},
		{Key: "due_date", Label: "invoices.dueDate", Kind: screen.Date},
		{Key: "category", Label: "invoices.category", Kind: screen.Text},
		{Key: "priority", Label: "invoices.priority", Kind: screen.Select, Default: "normal", Options: invoicePriority},
		{Key: "status", Label: "invoices.status", Kind: screen.Select, Default: "pending", Options: invoiceStatuses},
		{Key: "description", Label: "invoices.description", Kind: screen.TextArea},
		{Key: "notes", Label: "invoices.notes", Kind: screen.TextArea},
	},
	Search: []string{"invoice_number", "vendor_name", "reason"},
	Filters: []screen.Filter{
		{Key: "status", Label: "invoices.filterByStatus", Options: invoiceStatuses},
	},
	Stats: []screen.Stat{
		screen.Count("paid", "invoices.paid", screen.Is("status", "paid")),
		screen.Count("pending", "options.pending", screen.Is("status", "pending")),
		screen.Count("overdue", "invoices.overdue", screen.Is("status", "overdue")),
		screen.Sum("total", "invoices.amount", "amount", nil),
	},
	ConfirmDelete: "invoices.confirmDelete",
}

// Bills lists recurring bills.
var Bills = screen.Resource{
	Name:  "bills",
	Path:  "/bills",
	Title: "bills.title",
	Fields: []screen.Field{
		{Key: "title", Label: "bills.name", Kind: screen.Text, Required: true},
		{Key: "description", Label: "bills.description", Kind: screen.TextArea},
		{Key: "amount", Label: "bills.amount", Kind: screen.Number, Required: true},
		{Key: "vendor_name", Label: "bills.vendorName", Kind: screen.Text, Required: true},
		{Key: "category", Label: "bills.category", Kind: screen.Select, Required: true, Default: "utilities", Options: billCategories},
		{Key: "frequency", Label: "bills.frequency", Kind: screen.Select, Required: true, Default: "monthly", Options: billFrequencies},
		{Key: "due_day", Label: "bills.dueDate", Kind: screen.Integer},
		{Key: "status", Label: "bills.status", Kind: screen.Select, Required: true, Default: "active", Options: billStatuses},
		{Key: "auto_pay", Label: "bills.autoPay", Kind: screen.Checkbox, Default: false},
		{Key: "payment_method", Label: "bills.paymentMethod", Kind: screen.Text},
		{Key: "account_number", Label: "bills.accountNumber", Kind: screen.Text},
		{Key: "notes", Label: "bills.notes", Kind: screen.TextArea},
	},
	Search: []string{"title", "vendor_name", "category"},
	Filters: []screen.Filter{
		{Key: "status", Label: "bills.filterByStatus", Options: billStatuses},
		{Key: "category", Label: "bills.filterByCategory", Options: billCategories},
		{Key: "frequency", Label: "bills.filterByFrequency", Options: billFrequencies},
	},
	Stats: []screen.Stat{
		screen.Count("active", "bills.active", screen.Is("status", "active")),
		screen.Count("auto_pay", "bills.autoPay", func(r apiclient.Record) bool { return screen.Truthy(r, "auto_pay") }),
		screen.Sum("monthly_total", "bills.monthlyTotal", "amount", screen.Is("frequency", "monthly")),
	},
	ConfirmDelete: "bills.confirmDelete",
}

// Maintenance lists maintenance requests.
var Maintenance = screen.Resource{
	Name:  "maintenance",
	Path:  "/maintenance",
	Title: "maintenance.title",
	Fields: []screen.Field{
		{Key: "title", Label: "maintenance.title_field", Kind: screen.Text, Required: true},
		{Key: "description", Label: "maintenance.description", Kind: screen.TextArea, Required: true},
		{Key: "location", Label: "maintenance.location", Kind: screen.Text},
		{Key: "priority", Label: "maintenance.priority", Kind: screen.Select, Required: true, Default: "medium", Options: levels},
		{Key: "status", Label: "maintenance.status", Kind: screen.Select, Required: true, Default: "open", Options: maintenanceStatuses},
		{Key: "category", Label: "maintenance.category", Kind: screen.Select, Options: maintenanceKinds},
		{Key: "estimated_cost", Label: "maintenance.estimatedCost", Kind: screen.Number},
		{Key: "actual_cost", Label: "maintenance.actualCost", Kind: screen.Number},
	},
	Search: []string{"title", "description", "location"},
	Filters: []screen.Filter{
		{Key: "priority", Label: "maintenance.filterByPriority", Options: levels},
		{Key: "status", Label: "maintenance.filterByStatus", Options: maintenanceStatuses},
		{Key: "category", Label: "maintenance.filterByCategory", Options: maintenanceKinds},
	},
	Stats: []screen.Stat{
		screen.Count("open", "maintenance.open", screen.Is("status", "open", "pending")),
		screen.Count("in_progress", "maintenance.inProgress", screen.Is("status", "in_progress")),
		screen.Count("completed", "maintenance.completed", screen.Is("status", "completed")),
	},
	ConfirmDelete: "maintenance.confirmDelete",
}

// Events lists community events.
var Events = screen.Resource{
	Name:  "events",
	Path:  "/events",
	Title: "events.title",
	Fields: []screen.Field{
		{Key: "title", Label: "events.name", Kind: screen.Text, Required: true},
		{Key: "description", Label: "events.description", Kind: screen.TextArea},
		{Key: "location", Label: "events.location", Kind: screen.Text},
		{Key: "event_date", Label: "events.date", Kind: screen.DateTime, Required: true},
		{Key: "end_date", Label: "events.endDate", Kind: screen.DateTime},
		{Key: "max_attendees", Label: "events.capacity", Kind: screen.Integer},
		{Key: "cost_per_person", Label: "events.costPerPerson", Kind: screen.Number},
		{Key: "event_type", Label: "events.type", Kind: screen.Select, Options: eventTypes},
		{Key: "status", Label: "events.status", Kind: screen.Select, Required: true, Default: "scheduled", Options: eventStatuses},
	},
	Search: []string{"title", "event_type"},
	Filters: []screen.Filter{
		{Key: "status", Label: "events.filterByStatus", Options: eventStatuses},
	},
	Stats: []screen.Stat{
		screen.Count("total", "events.allEvents", nil),
		{Name: "upcoming", Label: "events.upcomingEvents", Compute: upcoming("event_date")},
	},
	ConfirmDelete: "events.confirmDelete",
}

// Violations lists HOA rule violations.
var Violations = screen.Resource{
	Name:  "violations",
	Path:  "/violations",
	Title: "violations.title",
	Fields: []screen.Field{
		{Key: "resident_id", Label: "violations.resident", Kind: screen.Select, Numeric: true,
			Source: &screen.OptionSource{Path: "/residents", Label: residentLabel}},
		{Key: "violation_type", Label: "violations.violationType", Kind: screen.Text, Required: true},
		{Key: "description", Label: "violations.description", Kind: screen.TextArea, Required: true},
		{Key: "location", Label: "violations.location", Kind: screen.Text},
		{Key: "severity", Label: "violations.severity", Kind: screen.Select, Required: true, Default: "medium", Options: levels},
		{Key: "status", Label: "violations.status", Kind: screen.Select, Required: true, Default: "open", Options: violationStatuses},
		{Key: "fine_amount", Label: "violations.fineAmount", Kind: screen.Number},
		{Key: "fine_paid", Label: "violations.finePaid", Kind: screen.Checkbox, Default: false},
		{Key: "notes", Label: "violations.notes", Kind: screen.TextArea},
	},
	Search: []string{"violation_type", "description", "resident_name"},
	Filters: []screen.Filter{
		{Key: "severity", Label: "violations.severity", Options: levels},
		{Key: "status", Label: "violations.status", Options: violationStatuses},
	},
	Stats: []screen.Stat{
		screen.Count("open", "violations.open", screen.Is("status", "open", "pending")),
		screen.Count("resolved", "violations.resolved", screen.Is("status", "resolved", "closed")),
		screen.Sum("fines", "violations.totalFines", "fine_amount", nil),
	},
	ConfirmDelete: "violations.confirmDelete",
}

var all = []screen.Resource{Residents, Vendors, Associates, Payments, Invoices, Bills, Maintenance, Events, Violations}

// All returns the nine descriptors in navigation order.
func All() []screen.Resource {
	return append([]screen.Resource(nil), all...)
}

// ByName looks a descriptor up by collection name.
func ByName(name string) (screen.Resource, bool) {
	for _, r := range all {
		if r.Name == name {
			return r, true
		}
	}
	return screen.Resource{}, false
}

// Names returns the collection names, sorted.
func Names() []string {
	names := make([]string, len(all))
	for i, r := range all {
		names[i] = r.Name
	}
	sort.Strings(names)
	return names
}

func thisMonth(key string) func([]apiclient.Record, time.Time) decimal.Decimal {
	return func(records []apiclient.Record, now time.Time) decimal.Decimal {
		n := 0
		for _, r := range records {
			if t, ok := screen.Time(r, key); ok && t.Year() == now.Year() && t.Month() == now.Month() {
				n++
			}
		}
		return decimal.NewFromInt(int64(n))
	}
}

func upcoming(key string) func([]apiclient.Record, time.Time) decimal.Decimal {
	return func(records []apiclient.Record, now time.Time) decimal.Decimal {
		n := 0
		for _, r := range records {
			if t, ok := screen.Time(r, key); ok && t.After(now) {
				n++
			}
		}
		return decimal.NewFromInt(int64(n))
	}
}
