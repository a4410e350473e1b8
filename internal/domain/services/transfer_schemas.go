package services

// DefaultSchemas returns the CSV layout of every importable entity
func DefaultSchemas() []Schema {
	return []Schema{
		{
			Entity: "residents",
			Import: []Column{
				{Name: "name", Required: true},
				{Name: "email", Required: true},
				{Name: "phone"},
				{Name: "building", Kind: KindInt, Required: true},
				{Name: "apartment", Kind: KindInt, Required: true},
			},
			Export:   []string{"id", "name", "email", "phone", "building", "apartment", "created_at"},
			UniqueBy: "email",
		},
		{
			Entity: "vendors",
			Import: []Column{
				{Name: "name", Required: true},
				{Name: "service", Field: "services"},
				{Name: "email"},
				{Name: "phone"},
				{Name: "address"},
				{Name: "contact_person"},
			},
			Export:   []string{"id", "name", "services", "email", "phone", "address", "contact_person", "created_at"},
			UniqueBy: "name",
		},
		{
			Entity: "associates",
			Import: []Column{
				{Name: "name", Required: true},
				{Name: "email"},
				{Name: "phone"},
				{Name: "department", Required: true},
				{Name: "work_area", Required: true},
				{Name: "position"},
				{Name: "monthly_salary", Kind: KindDecimal},
				{Name: "hire_date", Kind: KindDate},
				{Name: "status"},
			},
			Export: []string{"id", "name", "email", "phone", "department", "work_area", "position",
				"monthly_salary", "hire_date", "status", "created_at"},
			UniqueBy: "email",
		},
		{
			Entity: "payments",
			Import: []Column{
				{Name: "resident_email", Required: true, Lookup: &Lookup{Resource: "residents", Match: "email", Target: "resident_id"}},
				{Name: "amount", Kind: KindDecimal, Required: true},
				{Name: "payment_type", Required: true},
				{Name: "payment_method"},
				{Name: "payment_date", Kind: KindDate},
				{Name: "due_date", Kind: KindDate},
				{Name: "status"},
				{Name: "reference_number"},
				{Name: "description"},
			},
			Export: []string{"id", "resident_name", "building", "apartment", "amount", "payment_type",
				"payment_method", "payment_date", "due_date", "status", "reference_number"},
		},
		{
			Entity: "invoices",
			Import: []Column{
				{Name: "invoice_number", Required: true},
				{Name: "vendor_name", Required: true, Lookup: &Lookup{Resource: "vendors", Match: "name", Target: "vendor_id"}},
				{Name: "amount", Kind: KindDecimal, Required: true},
				{Name: "reason", Required: true},
				{Name: "status"},
				{Name: "authorized_by", Required: true},
				{Name: "invoice_date", Kind: KindDate},
				{Name: "due_date", Kind: KindDate},
				{Name: "category"},
			},
			Export: []string{"id", "invoice_number", "vendor_name", "amount", "reason", "category", "status",
				"authorized_by", "invoice_date", "due_date", "paid_date"},
			UniqueBy: "invoice_number",
		},
		{
			Entity: "bills",
			Import: []Column{
				{Name: "title", Required: true},
				{Name: "vendor_name", Required: true},
				{Name: "amount", Kind: KindDecimal, Required: true},
				{Name: "category", Required: true},
				{Name: "frequency", Required: true},
				{Name: "due_day", Kind: KindInt},
				{Name: "status"},
				{Name: "auto_pay", Kind: KindBool},
				{Name: "payment_method"},
				{Name: "notes"},
			},
			Export: []string{"id", "title", "vendor_name", "amount", "category", "frequency", "due_day",
				"status", "auto_pay", "payment_method"},
			UniqueBy: "title",
		},
		{
			Entity: "maintenance",
			Import: []Column{
				{Name: "title", Required: true},
				{Name: "description", Required: true},
				{Name: "category"},
				{Name: "priority"},
				{Name: "status"},
				{Name: "estimated_cost", Kind: KindDecimal},
				{Name: "location"},
			},
			Export: []string{"id", "title", "description", "location", "category", "priority", "status",
				"estimated_cost", "actual_cost", "scheduled_date", "completed_date"},
		},
		{
			Entity: "events",
			Import: []Column{
				{Name: "title", Required: true},
				{Name: "description"},
				{Name: "location"},
				{Name: "event_date", Kind: KindDate, Required: true},
				{Name: "end_date", Kind: KindDate},
				{Name: "max_attendees", Kind: KindInt},
				{Name: "cost_per_person", Kind: KindDecimal},
				{Name: "event_type"},
				{Name: "status"},
			},
			Export: []string{"id", "title", "description", "location", "event_date", "end_date",
				"max_attendees", "cost_per_person", "event_type", "status"},
		},
		{
			Entity: "violations",
			Import: []Column{
				{Name: "violation_type", Required: true},
				{Name: "description", Required: true},
				{Name: "resident_email", Lookup: &Lookup{Resource: "residents", Match: "email", Target: "resident_id"}},
				{Name: "location"},
				{Name: "severity"},
				{Name: "status"},
				{Name: "reported_by"},
				{Name: "fine_amount", Kind: KindDecimal},
				{Name: "fine_paid", Kind: KindBool},
			},
			Export: []string{"id", "violation_type", "description", "resident_name", "location", "severity",
				"status", "reported_by", "reported_date", "fine_amount", "fine_paid"},
		},
	}
}
