package category

// Default team rosters. Production runs load these from the roster CSVs;
// the literals here match the shipped configuration and back the built-in
// recipes when no override is supplied.
var (
	CTCTeams = []string{
		"Team Christianna Velazquez",
		"Team Kimberly Lewis",
		"Team Stephanie Kleinman",
		"Team Molly Kelley",
		"Jenn McKinley",
		"Team Jenn McKinley",
	}

	PreferredTeams = []string{
		"Team Molly Kelley",
		"Preferred CTC Team",
		"Team Marrisa Anderson",
		"Team EpiqueTC",
		"Team EpiqueTC AA",
		"Team EpiqueEST",
		"Team EpiqueEST AA",
		"Team EpiqueCST",
		"Team EpiqueCST AA",
		"Team EpiqueCA",
		"Team EpiqueCA AA",
	}
)

// Status vocabularies, verbatim from the transaction-management system.
var (
	ClosedPaid = Category{
		Name:     "CTC closed-paid",
		Statuses: []string{"CTC - Closed - PAID"},
	}

	Pending = Category{
		Name:     "CTC pending",
		Statuses: []string{"CTC - Pending"},
	}

	PreferredPending = Category{
		Name:     "preferred pending",
		Statuses: []string{"CTC - Preferred - Pending"},
	}

	PreferredClosedReadyToBill = Category{
		Name:     "preferred closed ready to bill",
		Statuses: []string{"CTC - Preferred - Closed - Ready to BILL"},
	}

	ListingPaid = Category{
		Name:     "listing paid",
		Statuses: []string{"Listing - PAID"},
	}

	Compliance = Category{
		Name:     "compliance",
		Statuses: []string{"Compliance"},
	}

	Terminated = Category{
		Name: "terminated",
		Statuses: []string{
			"CTC - Terminated - No Charge",
			"CTC - Terminated - Compliance - Ready to BILL",
			"CTC - Terminated - Compliance - PAID",
			"XX - CTC - Terminated Contract - Ready to BILL",
			"XX - CTC - Terminated Contract - PAID",
		},
	}

	Withdrawn = Category{
		Name: "withdrawn",
		Statuses: []string{
			"CTC - Withdrawn - No Charge",
			"CTC - Withdrawn - Ready to BILL",
			"CTC - Withdrawn - PAID",
		},
	}

	// Any places no restriction on status or team.
	Any = Category{Name: "any"}
)
