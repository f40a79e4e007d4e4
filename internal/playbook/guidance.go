package playbook

import "strings"

// guidance holds the four quote-guidance fields folded into the
// What Works section.
type guidance struct {
	truck    string
	power    string
	charging string
	service  string
	usage    Usage
}

// adviseQuote crosses the usage level with the environment flags to
// produce truck, power, charging, and service recommendations.
// Environment flags append modifier sentences; they never replace the
// base recommendation.
func adviseQuote(notes, industry string) guidance {
	usage := classifyUsage(notes)
	env := detectEnvironment(notes, industry)
	ind := strings.ToLower(industry)

	var g guidance
	g.usage = usage

	// Truck spec
	switch {
	case env.outdoor || containsAny(ind, []string{"construction", "yard", "lumber"}):
		g.truck = "Pneumatic tires with higher ground clearance and protective guards; add lighting for outdoor use."
	case env.cold:
		g.truck = "Cold-store package with corrosion protection; verify visibility and operator comfort."
	default:
		g.truck = "Cushion tires for smooth floors; size the mast to racking and common pallets."
	}

	// Power, service, and charging by usage level
	switch usage.Level {
	case UsageHeavy:
		g.power = "80V or Li-ion sized for long hours; plan for opportunity charging or hot-swap if using lead-acid."
		g.service = "Tight PM cadence (monthly or bi-monthly), stock critical spares, and include a response-time SLA."
		g.charging = "Opportunity or fast chargers near break areas; verify circuits and clearances."
	case UsageMedium, UsageTwoShift:
		g.power = "48V (or 36/48V) right-sized to one shift; one battery per truck with overnight charging."
		g.service = "Regular PM schedule with warranty coverage for key components."
		g.charging = "Standard chargers placed near parking; plan circuit loads for concurrent charging."
	case UsageLight:
		g.power = "Standard capacity with overnight charging; one battery per truck."
		g.service = "Quarterly PM with basic wear-item coverage."
		g.charging = "Overnight charging in a safe, ventilated area; minimal infrastructure."
	default:
		g.power = "Choose between IC and Li-ion after confirming hours and loads; start from a one-shift baseline."
		g.service = "Baseline PM plan; tighten after usage is confirmed."
		g.charging = "Pick overnight vs opportunity charging after hours and breaks are clarified."
	}

	// Environment modifiers
	if env.ramps {
		g.truck += " Confirm grades and size power/torque for ramp work."
	}
	if env.dusty {
		g.truck += " Add filtration and seals where dust is present."
	}
	if env.cold {
		g.power += " Prefer Li-ion with thermal management in cold storage."
	}

	return g
}
