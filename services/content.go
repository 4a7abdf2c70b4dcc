package services

// LevelGuide is the care guide matched to the player's current level band.
type LevelGuide struct {
	MinLevel    int      `json:"min_level"`
	MaxLevel    int      `json:"max_level"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tips        []string `json:"tips"`
}

var levelGuides = []LevelGuide{
	{
		MinLevel:    1,
		MaxLevel:    1,
		Title:       "বীজ রোপণ ও প্রাথমিক যত্ন (Seed Stage)",
		Description: "বীজটি সদ্য মাটিতে পোঁতা হয়েছে। মাটির আদ্রতা ধরে রাখা খুব জরুরি।",
		Tips: []string{
			"মাটি শুকিয়ে গেলে জল দিন, তবে কাদা করবেন না।",
			"সরাসরি কড়া রোদ থেকে দূরে রাখুন।",
		},
	},
	{
		MinLevel:    2,
		MaxLevel:    3,
		Title:       "অঙ্কুরোদগম ও চারা (Sprouting Stage)",
		Description: "ছোট্ট চারা মাটি ভেদ করে উঠছে! এখন ভোরের রোদ ও বাতাস খুব জরুরি।",
		Tips: []string{
			"বাতাস চলাচলের ব্যবস্থা রাখুন।",
			"সকালের মিষ্টি রোদ চারা গাছের জন্য অমৃত।",
		},
	},
	{
		MinLevel:    4,
		MaxLevel:    7,
		Title:       "বাড়ন্ত গাছের যত্ন (Growing Stage)",
		Description: "গাছটি দ্রুত বাড়ছে! এখন সঠিক পুষ্টি ও পর্যাপ্ত আলো প্রয়োজন।",
		Tips: []string{
			"প্রতি মাসে একবার জৈব সার প্রয়োগ করুন।",
			"দিনে অন্তত ৪-৫ ঘণ্টা রোদে রাখুন।",
		},
	},
	{
		MinLevel:    8,
		MaxLevel:    100,
		Title:       "পূর্ণাঙ্গ গাছের যত্ন (Mature Stage)",
		Description: "গাছটি এখন পূর্ণাঙ্গ। রোগবালাই ও সঠিক আকৃতির দিকে নজর দিন।",
		Tips: []string{
			"শুকনো বা মরা ডালপালা ছেঁটে দিন।",
			"পোকামাকড় বা ছত্রাক আছে কিনা দেখুন।",
		},
	},
}

// GuideForLevel returns the guide covering level, defaulting to the last
// band for anything beyond the table.
func GuideForLevel(level int) LevelGuide {
	for _, g := range levelGuides {
		if level >= g.MinLevel && level <= g.MaxLevel {
			return g
		}
	}
	return levelGuides[len(levelGuides)-1]
}
