package i18n

// translations maps key → language code → format string.
//
// Languages: et (Estonian), en (English), ru (Russian).
var translations = map[string]map[string]string{

	// ─── Home ────────────────────────────────────────────────────────────────
	"home.headline": {
		"et": "Kasvata oma tehisintellekti oskusi seemnest viljapuuaiani",
		"en": "Grow your AI skills from seed to orchard",
		"ru": "Развивайте навыки ИИ от семени до сада",
	},

	// ─── Growth stages ───────────────────────────────────────────────────────
	"stage.dna": {
		"et": "DNA",
		"en": "DNA",
		"ru": "ДНК",
	},
	"stage.seed": {
		"et": "Seeme",
		"en": "Seed",
		"ru": "Семя",
	},
	"stage.sprout": {
		"et": "Idu",
		"en": "Sprout",
		"ru": "Росток",
	},
	"stage.sapling": {
		"et": "Taim",
		"en": "Sapling",
		"ru": "Саженец",
	},
	"stage.tree": {
		"et": "Puu",
		"en": "Tree",
		"ru": "Дерево",
	},
	"stage.fruits": {
		"et": "Viljad",
		"en": "Fruits",
		"ru": "Плоды",
	},
	"stage.orchard": {
		"et": "Viljapuuaed",
		"en": "Orchard",
		"ru": "Сад",
	},

	"stage.dna.tagline": {
		"et": "Mis on tehisintellekt ja kust see tuleb",
		"en": "What AI is and where it comes from",
		"ru": "Что такое ИИ и откуда он взялся",
	},
	"stage.seed.tagline": {
		"et": "Andmed, mudelid ja esimesed mõisted",
		"en": "Data, models and the first concepts",
		"ru": "Данные, модели и первые понятия",
	},
	"stage.sprout.tagline": {
		"et": "Kuidas mudelid õpivad",
		"en": "How models learn",
		"ru": "Как обучаются модели",
	},
	"stage.sapling.tagline": {
		"et": "Keelemudelid ja vihjete kirjutamine",
		"en": "Language models and prompting",
		"ru": "Языковые модели и промпты",
	},
	"stage.tree.tagline": {
		"et": "Tehisintellekt igapäevatöös",
		"en": "AI in everyday work",
		"ru": "ИИ в повседневной работе",
	},
	"stage.fruits.tagline": {
		"et": "Tulemused ja mõõdetav kasu",
		"en": "Results and measurable value",
		"ru": "Результаты и измеримая польза",
	},
	"stage.orchard.tagline": {
		"et": "Tehisintellekt kogu organisatsioonis",
		"en": "AI across the whole organisation",
		"ru": "ИИ во всей организации",
	},

	// ─── Leads ───────────────────────────────────────────────────────────────
	// %s = visitor name
	"lead.created": {
		"et": "Aitäh, %s! Võtame teiega peagi ühendust.",
		"en": "Thank you, %s! We will be in touch shortly.",
		"ru": "Спасибо, %s! Мы скоро с вами свяжемся.",
	},
	"lead.consent_required": {
		"et": "Palun nõustuge andmete töötlemisega.",
		"en": "Please agree to the processing of your data.",
		"ru": "Пожалуйста, дайте согласие на обработку данных.",
	},

	// ─── Programs ────────────────────────────────────────────────────────────
	// %d = number of weeks
	"program.duration": {
		"et": "%d nädalat",
		"en": "%d weeks",
		"ru": "%d нед.",
	},

	// ─── Errors ──────────────────────────────────────────────────────────────
	"error.not_found": {
		"et": "Lehte ei leitud",
		"en": "Page not found",
		"ru": "Страница не найдена",
	},
	"error.internal": {
		"et": "Midagi läks valesti. Proovige hiljem uuesti.",
		"en": "Something went wrong. Please try again later.",
		"ru": "Что-то пошло не так. Попробуйте позже.",
	},
}
