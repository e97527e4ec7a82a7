// internal/generation/drafter.go
package generation

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spsmiles/outreach-backend/internal/model"
	"github.com/spsmiles/outreach-backend/internal/pricing"
)

const draftSystemPrompt = `You are an assistant helping S&P Smiles Co., a student-led oral health team, write professional and personalized emails to schools for dental screening services.

Your emails must be:
- Warm and approachable but professional
- Clear and concise
- Polite with proper punctuation
- NO contractions or slang
- NO robotic phrases
- Human-like and personalized
- Include the provided pricing exactly as given
- Focus on oral health benefits for students

Always include a personalized greeting, a brief introduction of the team, the benefits of dental screening, the provided pricing, a call to action, and a professional closing.`

const responseSystemPrompt = `You are an assistant generating professional automated responses for S&P Smiles Co. based on the intent of incoming email replies.

Your responses must be:
- Professional and courteous
- Brief but helpful
- Action-oriented
- Include contact information for follow-up
- NO contractions or slang
- Proper punctuation and grammar`

// Draft is a usable subject and body. Fallback reports whether the
// deterministic template was used instead of the generation capability.
type Draft struct {
	Subject  string
	Body     string
	Fallback bool
}

// Drafter produces outreach drafts and auto-responses. Draft and Response
// never fail: any error from the generator is absorbed and the
// deterministic template substitutes the same structured fields.
type Drafter struct {
	Gen Generator

	// CurrencySymbol prefixes formatted prices, e.g. "R" for rand.
	CurrencySymbol string
	// SenderName and SenderEmail close out the fallback templates.
	SenderName  string
	SenderEmail string
}

func NewDrafter(gen Generator, currencySymbol, senderName, senderEmail string) *Drafter {
	if currencySymbol == "" {
		currencySymbol = "R"
	}
	return &Drafter{
		Gen:            gen,
		CurrencySymbol: currencySymbol,
		SenderName:     senderName,
		SenderEmail:    senderEmail,
	}
}

// FormatCents renders a cent amount as a display price, e.g. 3600 -> "R36".
// Whole amounts drop the decimals; everything else keeps two.
func (d *Drafter) FormatCents(cents int64) string {
	if cents%100 == 0 {
		return fmt.Sprintf("%s%d", d.CurrencySymbol, cents/100)
	}
	return fmt.Sprintf("%s%d.%02d", d.CurrencySymbol, cents/100, cents%100)
}

// Draft builds the outreach email for a contact. The computed price is part
// of the prompt so the model never invents one. On any generator failure
// the deterministic template is returned instead; the caller always gets a
// usable draft.
func (d *Drafter) Draft(ctx context.Context, school *model.School, contact *model.Contact, campaign *model.Campaign, quote pricing.Quote) Draft {
	subject := fmt.Sprintf("Dental Screening Partnership Opportunity for %s", school.Name)

	if d.Gen != nil {
		body, err := d.Gen.Generate(ctx, draftSystemPrompt, d.buildDraftPrompt(school, contact, campaign, quote))
		if err == nil {
			body = Sanitize(body)
			if body != "" {
				return Draft{Subject: subject, Body: body}
			}
			err = fmt.Errorf("sanitized draft is empty")
		}
		log.Printf("[Generation] draft generation failed, using fallback template: %v", err)
	}

	return Draft{
		Subject:  subject,
		Body:     d.fallbackBody(school, contact, quote),
		Fallback: true,
	}
}

func (d *Drafter) buildDraftPrompt(school *model.School, contact *model.Contact, campaign *model.Campaign, quote pricing.Quote) string {
	studentCount := "Not specified"
	if school.StudentCount != nil {
		studentCount = fmt.Sprintf("%d", *school.StudentCount)
	}
	total := ""
	if quote.TotalEstimateCents != nil {
		total = fmt.Sprintf("\nEstimated total for the school: %s", d.FormatCents(*quote.TotalEstimateCents))
	}

	return fmt.Sprintf(`Write a personalized email to %s at %s school.

School Details:
- Name: %s
- Location: %s, %s
- Student Count: %s
- Contact: %s (%s)

Campaign: %s
%s
Pricing: %s per learner (special rate calculated for their school)%s

Write a compelling email that introduces S&P Smiles Co. dental screening services. Make it personal, professional, and focused on the health benefits for their students. Include the pricing naturally in the content.

Return ONLY the email content, no additional text or formatting.`,
		contact.Name, school.Name,
		school.Name,
		school.Address, school.Province,
		studentCount,
		contact.Name, contact.Position,
		campaign.Name,
		campaign.Description,
		d.FormatCents(quote.PricePerLearnerCents), total)
}

func (d *Drafter) fallbackBody(school *model.School, contact *model.Contact, quote pricing.Quote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", contact.Name)
	fmt.Fprintf(&b, "I hope this email finds you well. I am writing to introduce %s, a student-led oral health initiative dedicated to improving dental health awareness and access for school communities.\n\n", d.SenderName)
	fmt.Fprintf(&b, "We would like to partner with %s to provide comprehensive dental screening services for your students. Our team offers:\n\n", school.Name)
	b.WriteString("- Comprehensive oral health assessments\n")
	b.WriteString("- Early detection of dental issues\n")
	b.WriteString("- Preventive care recommendations\n")
	b.WriteString("- Health education sessions for students\n\n")
	fmt.Fprintf(&b, "We have calculated a special rate of %s per learner for %s, taking into consideration your school's specific needs and circumstances.", d.FormatCents(quote.PricePerLearnerCents), school.Name)
	if quote.TotalEstimateCents != nil {
		fmt.Fprintf(&b, " For your %d learners this comes to an estimated total of %s.", derefInt(school.StudentCount), d.FormatCents(*quote.TotalEstimateCents))
	}
	b.WriteString("\n\n")
	b.WriteString("These screenings can help identify dental issues early, potentially saving families significant costs and ensuring students maintain optimal oral health.\n\n")
	b.WriteString("Would you be available for a brief discussion about how we can support your students' health and wellbeing?\n\n")
	b.WriteString("Thank you for your time and consideration.\n\n")
	fmt.Fprintf(&b, "Best regards,\n\n%s\nContact: %s\nBuilding healthier smiles, one school at a time.", d.SenderName, d.SenderEmail)
	return b.String()
}

// Response drafts an intent-conditioned auto-reply. Like Draft, it always
// returns usable text.
func (d *Drafter) Response(ctx context.Context, intent string, school *model.School) string {
	if d.Gen != nil {
		text, err := d.Gen.Generate(ctx, responseSystemPrompt, responsePrompt(intent, school.Name))
		if err == nil {
			if text = Sanitize(text); text != "" {
				return text
			}
			err = fmt.Errorf("sanitized response is empty")
		}
		log.Printf("[Generation] auto-response generation failed, using fallback: %v", err)
	}
	return d.fallbackResponse(intent, school.Name)
}

func responsePrompt(intent, schoolName string) string {
	switch intent {
	case model.IntentInterested:
		return fmt.Sprintf("Generate an automated response for someone who showed interest in dental screening services for %s. Thank them, provide next steps, and include contact information.", schoolName)
	case model.IntentNotInterested:
		return "Generate a polite automated response acknowledging their decision not to proceed with dental screening services. Thank them for their time and leave the door open for the future."
	case model.IntentUnsubscribe:
		return "Generate a short confirmation that the recipient has been removed from our contact list and will not be emailed again."
	default:
		return fmt.Sprintf("Generate an automated response for someone who needs more information about dental screening services for %s. Offer to provide details and include contact information.", schoolName)
	}
}

func (d *Drafter) fallbackResponse(intent, schoolName string) string {
	switch intent {
	case model.IntentInterested:
		return fmt.Sprintf("Thank you for your interest in dental screening services for %s. We will be in touch shortly to arrange the next steps. Please contact us at %s for immediate assistance.", schoolName, d.SenderEmail)
	case model.IntentNotInterested:
		return fmt.Sprintf("Thank you for considering our dental screening services. We respect your decision and wish %s all the best. Should circumstances change, we would be glad to hear from you.", schoolName)
	case model.IntentUnsubscribe:
		return "You have been removed from our contact list and will not receive further emails from us. Thank you for letting us know."
	default:
		return fmt.Sprintf("Thank you for your email regarding dental screening services for %s. We will be in touch shortly to address your inquiry. Please contact us at %s for immediate assistance.", schoolName, d.SenderEmail)
	}
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
