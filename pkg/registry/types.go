package registry

// File is the on-disk registry layout.
//
//	sources:
//	  tradepoint:
//	    delivery:
//	      strategy: schedule
//	      delivery_weekdays: [mon, thu]
//	      readiness: {cutoff: "14:00", before_hours: 24, after_hours: 48}
//	    ranking:
//	      max_items: 10
//	brand_aliases:
//	  - [FEBI, FEBI BILSTEIN, ФЕБИ]
type File struct {
	Sources      map[string]SourceSpec `yaml:"sources"`
	BrandAliases [][]string            `yaml:"brand_aliases"`
}

// SourceSpec configures one source. Omitted blocks keep the built-in entry.
type SourceSpec struct {
	Delivery *DeliverySpec `yaml:"delivery"`
	Ranking  *RankingSpec  `yaml:"ranking"`
}

// DeliverySpec is a delivery strategy tagged by Strategy: direct, rules,
// schedule or shipment. Only the keys of the chosen strategy are read.
type DeliverySpec struct {
	Strategy      string   `yaml:"strategy"`
	AvoidWeekdays []string `yaml:"avoid_weekdays"`

	// direct
	Field string `yaml:"field"`

	// rules
	Rules []RuleSpec `yaml:"rules"`

	// schedule
	DeliveryWeekdays []string       `yaml:"delivery_weekdays"`
	AllowSameDay     bool           `yaml:"allow_same_day"`
	Readiness        *ReadinessSpec `yaml:"readiness"`

	// shipment
	ReadinessField     string   `yaml:"readiness_field"`
	ShipmentWeekdays   []string `yaml:"shipment_weekdays"`
	ShipmentCutoff     string   `yaml:"shipment_cutoff"`
	DeliveryDelayHours float64  `yaml:"delivery_delay_hours"`
}

// RuleSpec is one placement window, e.g. from "mon 00:00" to "wed 13:59",
// with exactly one of NextWeekday or AfterDays.
type RuleSpec struct {
	From        string `yaml:"from"`
	To          string `yaml:"to"`
	NextWeekday string `yaml:"next_weekday"`
	AfterDays   *int   `yaml:"after_days"`
}

// ReadinessSpec selects a readiness rule:
// cutoff alone, plus_hours alone, or condition with both.
type ReadinessSpec struct {
	Cutoff      string  `yaml:"cutoff"`
	BeforeHours float64 `yaml:"before_hours"`
	AfterHours  float64 `yaml:"after_hours"`
	PlusHours   string  `yaml:"plus_hours"`
	Condition   string  `yaml:"condition"`
}

// RankingSpec mirrors ranking.Policy; unset fields take the defaults.
type RankingSpec struct {
	MinProbability            *float64 `yaml:"min_probability"`
	TopPercent                *float64 `yaml:"top_percent"`
	MaxItems                  int      `yaml:"max_items"`
	MinResultsBeforeFiltering *int     `yaml:"min_results_before_filtering"`
}
