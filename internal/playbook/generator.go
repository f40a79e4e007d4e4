// Package playbook derives a sales-outreach brief from a lead record.
//
// Generation is fully deterministic and total: every classification
// dimension has a generic terminal case, so any lead, including one
// with every field empty, yields a complete ten-section document. An
// optional Enhancer can rewrite the draft; failures fall back to the
// deterministic text.
package playbook

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/tpillow01/Tynan-Leads-Tracker/internal/types"
)

// SectionHeadings are the ten section headings of a brief, in output order.
var SectionHeadings = []string{
	"Summary",
	"Challenges",
	"What Works",
	"Talk Tracks",
	"Cadence",
	"Next Best Action",
	"Email Subject",
	"First-Touch Email",
	"Call Opener",
	"Qualification Checklist",
}

// Generator produces outreach playbooks for leads.
type Generator struct {
	enhancer Enhancer
	now      func() time.Time
}

// NewGenerator returns a Generator. A nil enhancer disables refinement;
// generation itself never needs one.
func NewGenerator(enhancer Enhancer) *Generator {
	return &Generator{enhancer: enhancer, now: time.Now}
}

// ModelName reports the refinement model, or "" when refinement is off.
func (g *Generator) ModelName() string {
	if g.enhancer == nil {
		return ""
	}
	return g.enhancer.ModelName()
}

// Generate renders the playbook for a lead. It never fails: the
// deterministic draft is always available, and a refinement error only
// means the draft is returned as-is.
func (g *Generator) Generate(ctx context.Context, lead types.Lead) string {
	draft := g.compose(lead)
	if g.enhancer == nil {
		return draft
	}

	refined, err := g.enhancer.Refine(ctx, draft)
	if err != nil || strings.TrimSpace(refined) == "" {
		slog.Debug("playbook refinement skipped", "error", err)
		return draft
	}
	return strings.TrimSpace(refined)
}

// compose assembles the deterministic ten-section brief.
func (g *Generator) compose(lead types.Lead) string {
	prof := profileFor(lead.Industry)
	qg := adviseQuote(lead.Notes, lead.Industry)
	cadence := cadenceSteps(lead.ContactEmail != "", lead.Phone != "")

	summary := []string{"Summary", "Company: " + orUnknown(lead.Company)}
	appendIf := func(label, value string) {
		if value != "" {
			summary = append(summary, label+": "+value)
		}
	}
	appendIf("Contact", lead.ContactName)
	appendIf("Email", lead.ContactEmail)
	appendIf("Phone", lead.Phone)
	appendIf("Industry", lead.Industry)
	appendIf("City", lead.City)
	appendIf("Source", lead.Source)
	appendIf("Rep", lead.Rep)
	if lead.LeadDate != nil {
		summary = append(summary, "Lead date: "+lead.LeadDate.String())
	}
	if lead.Notes != "" {
		summary = append(summary, "Notes: "+firstLine(lead.Notes, 120))
	}
	summary = append(summary, "Daily Usage: "+qg.usage.Phrase)

	whatWorks := []string{
		"What Works",
		qg.truck,
		qg.power,
		qg.charging,
		qg.service,
		strings.Join(prof.proof, " "),
	}

	var checklist []string
	for _, q := range qualificationQuestions {
		checklist = append(checklist, "• "+q)
	}

	sections := [][]string{
		summary,
		{"Challenges", strings.Join(prof.pains, " ")},
		whatWorks,
		{"Talk Tracks", strings.Join(prof.tracks, " ")},
		{"Cadence", strings.Join(cadence, " ")},
		{"Next Best Action", g.nextBestAction(lead)},
		{"Email Subject", subjectLine(lead.Company, lead.Industry)},
		{"First-Touch Email", firstEmailBody(lead)},
		{"Call Opener", callOpener(lead.Industry)},
		{"Qualification Checklist", strings.Join(checklist, " ")},
	}

	blocks := make([]string, len(sections))
	for i, s := range sections {
		blocks[i] = strings.Join(s, "\n")
	}
	return strings.TrimSpace(strings.Join(blocks, "\n\n"))
}

// nextBestAction picks the follow-up step from the lead's age in days,
// using UTC calendar dates. A missing creation date counts as day zero.
func (g *Generator) nextBestAction(lead types.Lead) string {
	today := types.DateOf(g.now().UTC())
	created := today
	if !lead.CreatedAt.IsZero() {
		created = types.DateOf(lead.CreatedAt.UTC())
	}
	days := int(today.Sub(created.Time).Hours() / 24)

	switch {
	case days <= 0:
		return "Send the introductory email today and offer two specific time slots for a 15-minute discovery call."
	case days <= 2:
		return "Make the Day-3 touch. If you have a phone number, place a short call; otherwise, send a concise follow-up email."
	case days <= 6:
		return "Share a relevant one-pager such as an ROI summary or a case study to move the conversation forward."
	default:
		return "Send a brief, respectful final check-in and propose a site walk or a short demo."
	}
}

// cadenceSteps builds the outreach sequence. The call step only appears
// when a phone number exists; otherwise a follow-up email substitutes.
func cadenceSteps(hasEmail, hasPhone bool) []string {
	var steps []string
	if hasEmail {
		steps = append(steps, "Send a short email that introduces the value and offers a 15-minute discovery call.")
	}
	if hasPhone {
		steps = append(steps, "Place a brief call that references the email and proposes two time slots.")
	} else {
		steps = append(steps, "If no phone, send a follow-up email with one relevant case study and two time windows.")
	}
	steps = append(steps,
		"Share a concise one-pager (ROI summary, safety overview, or model comparison).",
		"If no movement, propose a site walk or a short demo.")
	return steps
}

var qualificationQuestions = []string{
	"Typical and peak load weights.",
	"Required lift height and common lift heights.",
	"Aisle width and turning constraints.",
	"Hours per shift and number of shifts per day.",
	"Environment: indoors, outdoors, or mixed; surface conditions and ramps.",
	"Preferred power (IC or Li-ion) and existing fueling/charging.",
	"Needed attachments (sideshifter, fork positioner, clamp, camera).",
	"Current issues: downtime, parts delays, operator problems.",
	"Seasonal peaks and any rental surge capacity needs.",
}

func subjectLine(company, industry string) string {
	const base = "A practical idea to cut downtime and cost"
	if strings.TrimSpace(industry) != "" {
		return fmt.Sprintf("%s operations — %s", titleCase(industry), base)
	}
	if strings.TrimSpace(company) != "" {
		return fmt.Sprintf("%s — %s", company, base)
	}
	return base
}

func firstEmailBody(lead types.Lead) string {
	company := strings.TrimSpace(lead.Company)
	if company == "" {
		company = "your team"
	}
	contact := strings.TrimSpace(lead.ContactName)
	if contact == "" {
		contact = "there"
	}
	industry := strings.TrimSpace(lead.Industry)
	segment := industry
	if segment == "" {
		segment = "operations"
	}

	prof := profileFor(industry)

	var lines []string
	lines = append(lines,
		"Hi "+contact+",",
		"",
		fmt.Sprintf("I work with material handling teams like %s. Based on similar %s, we typically help in two areas:", company, segment))
	for _, p := range prof.pains[:2] {
		lines = append(lines, "• "+p)
	}
	lines = append(lines, "", "Here is how we usually solve those problems:")
	for _, p := range prof.proof[:2] {
		lines = append(lines, "• "+p)
	}
	lines = append(lines,
		"",
		"Would a quick 15-minute discovery call this week be helpful? I can share a one-page specification and ROI sketch tailored to your daily usage.",
		"",
		"Best,",
		"Thomas Phillips",
		"Tynan Equipment Company")
	return strings.Join(lines, "\n")
}

func callOpener(industry string) string {
	track := profileFor(industry).tracks[0]
	return "Hi, this is Thomas with Tynan Equipment. We help teams reduce downtime and total cost on forklifts. " +
		"I would like to schedule a brief discovery so we can " + strings.ToLower(track) +
		" Would you have ten to fifteen minutes this week?"
}

// firstLine distills notes to their first line, truncated to maxLen.
func firstLine(text string, maxLen int) string {
	if text == "" {
		return "Unknown"
	}
	s := strings.TrimSpace(text)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "…"
	}
	return s
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

// titleCase uppercases the first letter of each word, lowercasing the
// rest, so "cold storage" renders as "Cold Storage" in subject lines.
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
