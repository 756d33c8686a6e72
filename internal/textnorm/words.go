package textnorm

// englishStopWords is the NLTK English stop-word corpus.
var englishStopWords = []string{
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you", "you're",
	"you've", "you'll", "you'd", "your", "yours", "yourself", "yourselves", "he",
	"him", "his", "himself", "she", "she's", "her", "hers", "herself", "it", "it's",
	"its", "itself", "they", "them", "their", "theirs", "themselves", "what",
	"which", "who", "whom", "this", "that", "that'll", "these", "those", "am", "is",
	"are", "was", "were", "be", "been", "being", "have", "has", "had", "having",
	"do", "does", "did", "doing", "a", "an", "the", "and", "but", "if", "or",
	"because", "as", "until", "while", "of", "at", "by", "for", "with", "about",
	"against", "between", "into", "through", "during", "before", "after", "above",
	"below", "to", "from", "up", "down", "in", "out", "on", "off", "over", "under",
	"again", "further", "then", "once", "here", "there", "when", "where", "why",
	"how", "all", "any", "both", "each", "few", "more", "most", "other", "some",
	"such", "no", "nor", "not", "only", "own", "same", "so", "than", "too", "very",
	"s", "t", "can", "will", "just", "don", "don't", "should", "should've", "now",
	"d", "ll", "m", "o", "re", "ve", "y", "ain", "aren", "aren't", "couldn",
	"couldn't", "didn", "didn't", "doesn", "doesn't", "hadn", "hadn't", "hasn",
	"hasn't", "haven", "haven't", "isn", "isn't", "ma", "mightn", "mightn't",
	"mustn", "mustn't", "needn", "needn't", "shan", "shan't", "shouldn",
	"shouldn't", "wasn", "wasn't", "weren", "weren't", "won", "won't", "wouldn",
	"wouldn't",
}

// StopWords returns a copy of the built-in English stop-word list.
func StopWords() []string {
	return append([]string(nil), englishStopWords...)
}

// irregularForms maps inflections the stemmer cannot reduce to their
// dictionary form.  Keys are case-folded.
var irregularForms = map[string]string{
	// verbs
	"am": "be", "is": "be", "are": "be", "was": "be", "were": "be", "been": "be", "being": "be",
	"has": "have", "had": "have", "having": "have",
	"does": "do", "did": "do", "done": "do",
	"ate": "eat", "eaten": "eat",
	"drank": "drink", "drunk": "drink",
	"slept": "sleep",
	"ran": "run",
	"felt": "feel",
	"went": "go", "gone": "go",
	"got": "get", "gotten": "get",
	"woke": "wake", "woken": "wake",
	"took": "take", "taken": "take",
	"gave": "give", "given": "give",
	"made": "make",
	"said": "say",
	"thought": "think",
	"told": "tell",
	"came": "come",
	"saw": "see", "seen": "see",
	"knew": "know", "known": "know",
	"lost": "lose",
	"gained": "gain",
	"hurt": "hurt",
	"bled": "bleed",
	"swam": "swim", "swum": "swim",
	"rode": "ride", "ridden": "ride",
	"lay": "lie", "lain": "lie",
	"fell": "fall", "fallen": "fall",
	"broke": "break", "broken": "break",
	"kept": "keep",
	"began": "begin", "begun": "begin",
	// nouns
	"feet": "foot",
	"teeth": "tooth",
	"children": "child",
	"men": "man",
	"women": "woman",
	"people": "person",
	"mice": "mouse",
	"lives": "life",
	"knees": "knee",
	"diabetes": "diabetes",
	"stress": "stress",
	// adjectives
	"better": "good", "best": "good",
	"worse": "bad", "worst": "bad",
}
