package app

import "risk-profile-service/internal/domain"

var resultTypes = map[domain.ResultKind]domain.ResultType{
	domain.UltraConservative: {
		Kind:        domain.UltraConservative,
		Name:        "Steady Defender",
		Description: "Avoids risk wherever possible and puts protecting existing assets above everything else.",
	},
	domain.Conservative: {
		Kind:        domain.Conservative,
		Name:        "Stable Balancer",
		Description: "Values stability but still builds wealth step by step so inflation does not erode it.",
	},
	domain.Moderate: {
		Kind:        domain.Moderate,
		Name:        "Index Core",
		Description: "Wants to capture the growth of the whole market efficiently and at low cost, with a good sense of balance.",
	},
	domain.Aggressive: {
		Kind:        domain.Aggressive,
		Name:        "Satellite Growth",
		Description: "Keeps a stable core and actively targets returns with a satellite allocation.",
	},
	domain.VeryAggressive: {
		Kind:        domain.VeryAggressive,
		Name:        "High-Risk Seeker",
		Description: "Accepts large short-term swings and actively pursues high returns.",
	},
}

var portfolios = map[domain.ResultKind]domain.Portfolio{
	domain.UltraConservative: {
		Title:   "Defensive portfolio",
		Details: "Centred on retail government bonds and time deposits. Not losing capital comes first.",
	},
	domain.Conservative: {
		Title:   "Stability-focused portfolio",
		Details: "70% developed-market bond fund, 30% global equity index fund. Built with inflation in mind.",
	},
	domain.Moderate: {
		Title:   "Balanced portfolio",
		Details: "60% global equity index fund, 40% developed-market bond fund. Aims for the market's average return.",
	},
	domain.Aggressive: {
		Title:   "Growth portfolio",
		Details: "80% global equity index fund, 20% emerging-market equities or individual growth stocks. Takes risk to pursue higher growth.",
	},
}

var (
	portfolioAdvanced = domain.Portfolio{
		Title:   "Very aggressive portfolio",
		Details: "Individual growth stocks, thematic ETFs and even crypto assets. Requires deep expertise and a high tolerance for risk.",
	}
	portfolioGuided = domain.Portfolio{
		Title:   "Growth portfolio (adjusted recommendation)",
		Details: "The appetite for high returns is there, but start with well-diversified products such as 80% global equity index fund and 20% emerging-market equities.",
	}
	portfolioStandard = domain.Portfolio{
		Title:   "Standard portfolio",
		Details: "50% global equity index fund, 50% developed-market bond fund.",
	}
)

// LookupResultType returns the display record for a profile.
func LookupResultType(kind domain.ResultKind) domain.ResultType {
	if rt, ok := resultTypes[kind]; ok {
		return rt
	}
	return domain.ResultType{Kind: kind, Name: string(kind)}
}
