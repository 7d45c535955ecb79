package extract

import "strings"

// ServiceCategory is the clinic service a patient is asking about.
type ServiceCategory string

const (
	ServiceGeneralCheckup   ServiceCategory = "General Checkup"
	ServiceTeethCleaning    ServiceCategory = "Teeth Cleaning"
	ServiceCavityFilling    ServiceCategory = "Cavity Filling"
	ServiceRootCanal        ServiceCategory = "Root Canal Treatment"
	ServicePainConsultation ServiceCategory = "Pain Consultation"
)

type serviceRule struct {
	keywords []string
	category ServiceCategory
}

// serviceRules is a fixed priority list; where keyword sets overlap the
// earlier rule wins, so "root canal cleaning" classifies as a root canal.
var serviceRules = []serviceRule{
	{keywords: []string{"rct", "root canal"}, category: ServiceRootCanal},
	{keywords: []string{"cleaning", "clean"}, category: ServiceTeethCleaning},
	{keywords: []string{"filling", "cavity"}, category: ServiceCavityFilling},
	{keywords: []string{"checkup", "check"}, category: ServiceGeneralCheckup},
	{keywords: []string{"pain", "hurt"}, category: ServicePainConsultation},
}

// ClassifyService maps free text to a service category, defaulting to a
// general checkup when no keyword matches.
func ClassifyService(text string) ServiceCategory {
	lower := strings.ToLower(text)
	for _, rule := range serviceRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return ServiceGeneralCheckup
}
