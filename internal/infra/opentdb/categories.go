package opentdb

// categorySlugs maps Open Trivia DB category names to local category tags.
var categorySlugs = map[string]string{
	"General Knowledge":                     "general",
	"Entertainment: Books":                  "books",
	"Entertainment: Film":                   "film",
	"Entertainment: Music":                  "music",
	"Entertainment: Musicals & Theatres":    "musicals",
	"Entertainment: Television":             "television",
	"Entertainment: Video Games":            "video_games",
	"Entertainment: Board Games":            "board_games",
	"Science & Nature":                      "science",
	"Science: Computers":                    "computers",
	"Science: Mathematics":                  "mathematics",
	"Mythology":                             "mythology",
	"Sports":                                "sports",
	"Geography":                             "geography",
	"History":                               "history",
	"Politics":                              "politics",
	"Art":                                   "art",
	"Celebrities":                           "celebrities",
	"Animals":                               "animals",
	"Vehicles":                              "vehicles",
	"Entertainment: Comics":                 "comics",
	"Science: Gadgets":                      "gadgets",
	"Entertainment: Japanese Anime & Manga": "anime",
	"Entertainment: Cartoon & Animations":   "cartoon",
}

// CategorySlug returns the local tag for a remote category name, "general" when unknown.
func CategorySlug(name string) string {
	if slug, ok := categorySlugs[name]; ok {
		return slug
	}
	return "general"
}
