package prefs

// Translator looks up UI strings for one language.
type Translator struct {
	Lang Lang
}

// T returns the translation for key, falling back to English and then
// to the key itself.
func (t Translator) T(key string) string {
	if s, ok := translations[t.Lang][key]; ok {
		return s
	}
	if s, ok := translations[LangEnglish][key]; ok {
		return s
	}
	return key
}

var translations = map[Lang]map[string]string{
	LangEnglish: {
		"vote":             "Vote",
		"login":            "Login",
		"logout":           "Logout",
		"dashboard":        "Dashboard",
		"policies":         "Policies",
		"submit":           "Submit",
		"submit_policy":    "Submit Policy",
		"admin":            "Admin",
		"superuser":        "Superuser",
		"all_policies":     "All Policies",
		"policy_title":     "Policy Title",
		"description":      "Description",
		"search":           "Search",
		"category":         "Category",
		"all_categories":   "All Categories",
		"status":           "Status",
		"pending":          "Pending",
		"approved":         "Approved",
		"rejected":         "Rejected",
		"uncertain":        "Uncertain",
		"in_progress":      "In Progress",
		"completed":        "Completed",
		"on_hold":          "On Hold",
		"cannot_implement": "Cannot Implement",
		"sort_by":          "Sort By",
		"newest":           "Newest",
		"oldest":           "Oldest",
		"most_voted":       "Most Voted",
		"trending":         "Trending",
		"export":           "Export",
		"analytics":        "Analytics",
		"dark_mode":        "Dark Mode",
		"light_mode":       "Light Mode",
		"support":          "Support",
		"oppose":           "Oppose",
		"no_votes_yet":     "No votes yet",
		"already_voted":    "You've voted from this device",
		"vote_recorded":    "Your vote has been recorded.",
		"no_policies":      "No policies yet",
		"admin_note":       "Admin",
		"loading":          "Loading...",
		"classroom_code":   "Classroom Code",
		"continue":         "Continue",
	},
	LangRomanian: {
		"vote":             "Votează",
		"login":            "Autentificare",
		"logout":           "Deconectare",
		"dashboard":        "Panou",
		"policies":         "Politici",
		"submit":           "Trimite",
		"submit_policy":    "Trimite Politică",
		"admin":            "Admin",
		"superuser":        "Superuser",
		"all_policies":     "Toate Politicile",
		"policy_title":     "Titlu Politică",
		"description":      "Descriere",
		"search":           "Căutare",
		"category":         "Categorie",
		"all_categories":   "Toate Categoriile",
		"status":           "Status",
		"pending":          "În Așteptare",
		"approved":         "Aprobat",
		"rejected":         "Respins",
		"uncertain":        "Incert",
		"in_progress":      "În Progres",
		"completed":        "Finalizat",
		"on_hold":          "În Așteptare",
		"cannot_implement": "Nu Poate Fi Implementat",
		"sort_by":          "Sortează După",
		"newest":           "Cele Mai Noi",
		"oldest":           "Cele Mai Vechi",
		"most_voted":       "Cele Mai Votate",
		"trending":         "Trending",
		"export":           "Exportă",
		"analytics":        "Analize",
		"dark_mode":        "Mod Întunecat",
		"light_mode":       "Mod Luminos",
		"support":          "Susține",
		"oppose":           "Opune",
		"no_votes_yet":     "Niciun vot încă",
		"already_voted":    "Ai votat de pe acest dispozitiv",
		"vote_recorded":    "Votul tău a fost înregistrat.",
		"no_policies":      "Nicio politică încă",
		"admin_note":       "Admin",
		"loading":          "Se încarcă...",
		"classroom_code":   "Cod Clasă",
		"continue":         "Continuă",
	},
}
