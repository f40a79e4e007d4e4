package playbook

import "strings"

// profile supplies the industry-specific sentences for a brief: likely
// pains, proof points, and recommended talk tracks.
type profile struct {
	keywords []string
	pains    []string
	proof    []string
	tracks   []string
}

// industryProfiles is scanned top to bottom; the first profile whose
// keyword matches the industry string wins, so declaration order matters
// (agriculture is checked before manufacturing, and so on).
var industryProfiles = []profile{
	{
		keywords: []string{"agriculture", "agri", "grain", "bunge", "food", "edible oil", "milling"},
		pains: []string{
			"Tight delivery windows can create congestion at docks and slow throughput.",
			"Food-safety expectations favor clean power and low emissions inside processing areas.",
			"Outdoor yard moves and indoor transitions require the right tire and power mix.",
		},
		proof: []string{
			"We typically lower total cost of ownership while maintaining reliable uptime.",
			"Parts availability and regional service coverage shorten downtime.",
			"Lithium options support clean, food-safe operations where needed.",
		},
		tracks: []string{
			"Segment by daily usage so indoor units stay clean and efficient.",
			"Use Li-ion for indoor food areas and pneumatic IC or Li-ion for yard work.",
			"Offer a quick survey of lift heights and aisle widths so the mast and attachments are correct.",
		},
	},
	{
		keywords: []string{"manufacturing", "fabrication", "heavy machinery"},
		pains: []string{
			"Mixed loads and shift patterns cause uneven wear and unexpected downtime.",
			"Unplanned stoppages quickly turn into lost production hours.",
			"Common attachments like a sideshifter or fork positioner improve throughput.",
		},
		proof: []string{
			"A robust chassis and mast design handle longer shifts reliably.",
			"Predictive maintenance and proactive PM scheduling reduce surprises.",
			"Lead times are competitive with larger brands without sacrificing quality.",
		},
		tracks: []string{
			"Start with a short time-motion check to confirm daily usage.",
			"Standardize sideshifters and fork positioners on the busiest lanes.",
			"Pilot one Li-ion unit on the heaviest shift to prove the ROI with real data.",
		},
	},
	{
		keywords: []string{"logistics", "3pl", "warehouse", "distribution", "ecommerce", "retail"},
		pains: []string{
			"Seasonal peaks demand surge capacity without overcommitting capital.",
			"Aisle width and racking heights must be verified before quoting masts.",
			"Operator turnover calls for simple controls and safety visibility aids.",
		},
		proof: []string{
			"We provide reach and narrow-aisle configurations with excellent visibility.",
			"Rental and burst-capacity programs help cover peak months cost-effectively.",
			"Telematics and access control improve safety and utilization.",
		},
		tracks: []string{
			"Measure aisle width and lift height before specifying masts or cameras.",
			"Bundle flexible rental capacity for known peak periods to protect cash.",
			"Add blue lights or cameras and operator access control where appropriate.",
		},
	},
	{
		keywords: []string{"construction", "yard", "lumber"},
		pains: []string{
			"Uneven surfaces and outdoor exposure require the right tires and clearance.",
			"Fuel and energy costs add up over long travel paths.",
			"Small on-site teams need fast, predictable service support.",
		},
		proof: []string{
			"Pneumatic tire IC or Li-ion units with higher ground clearance perform well.",
			"Mobile service and on-site PM options minimize travel and wait time.",
			"Pricing stays competitive even at higher capacities.",
		},
		tracks: []string{
			"Specify pneumatics and protective packages such as guards and lighting.",
			"Confirm grades and surface conditions to size power correctly.",
			"Offer service SLAs with response-time commitments.",
		},
	},
	{
		keywords: []string{"cold", "freezer", "refrigerated"},
		pains: []string{
			"Cold environments reduce battery performance and can create condensation.",
			"Corrosion risks increase on unprotected components.",
			"Operator comfort and visibility matter when temperatures stay low.",
		},
		proof: []string{
			"Cold-store packages and select heaters preserve performance in the cold.",
			"Li-ion with thermal management handles frequent short charges well.",
			"Seals and grease choices withstand repeated condensation cycles.",
		},
		tracks: []string{
			"Use cold-store kits and treated components where corrosion is likely.",
			"Plan charging strategy and warm-up cycles before peak windows.",
			"Consider cab options or heated grips to sustain performance.",
		},
	},
}

// genericProfile is the fallback when no industry keyword matches.
var genericProfile = profile{
	pains: []string{
		"Daily usage is unclear, which makes right-sizing equipment difficult.",
		"Irregular follow-up lowers response rate and reduces win probability.",
		"Price comparisons require a clear, one-page ROI story.",
	},
	proof: []string{
		"We maintain reliable service coverage with fast access to parts.",
		"Lower total cost of ownership is typical due to energy and PM savings.",
		"Short-term trials or rentals de-risk the final selection.",
	},
	tracks: []string{
		"Schedule a 15-minute discovery to map hours, loads, and aisle/lift needs.",
		"Offer a brief pilot or rental to validate comfort and performance.",
		"Share a one-page ROI that compares energy and maintenance to the status quo.",
	},
}

// profileFor selects the first profile whose keyword appears in the
// industry string (case-insensitive substring match).
func profileFor(industry string) profile {
	i := strings.ToLower(industry)
	for _, p := range industryProfiles {
		if containsAny(i, p.keywords) {
			return p
		}
	}
	return genericProfile
}
