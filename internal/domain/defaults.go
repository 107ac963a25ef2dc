package domain

// Singleton record ids for the settings and home_content tables.
const (
	SettingsID    = "main"
	HomeContentID = "main"
)

// DefaultSettings is what a fresh install shows before any admin edit.
func DefaultSettings() Settings {
	return Settings{
		ID:      SettingsID,
		GymName: "Iron Forge Gym",
		Tagline: "Stronger every session",
		Phone:   "(555) 010-2030",
		Email:   "hello@ironforge.test",
		Address: "12 Foundry Lane, Springfield",
		Hours:   "Mon-Fri 5am-10pm, Sat-Sun 7am-7pm",
	}
}

// DefaultHeadline doubles as the "never edited" marker for home content.
const DefaultHeadline = "Train Hard. Live Strong."

func DefaultHomeContent() HomeContent {
	return HomeContent{
		ID:          HomeContentID,
		Headline:    DefaultHeadline,
		Subheadline: "Strength, conditioning and community under one roof.",
		CTAText:     "Start your free week",
		CTALink:     "/schedule",
		HeroImage:   "/static/img/hero.jpg",
		About:       "Family-owned since 2009. Coaches on the floor every hour we are open.",
	}
}
