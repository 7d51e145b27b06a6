package nlp

// Fixed word lists backing the heuristic capabilities. Frozen on purpose:
// extraction must stay bit-reproducible across releases, so additions require
// a feature schema version bump.

var pronouns = map[string]struct{}{
	"i": {}, "you": {}, "he": {}, "she": {}, "it": {}, "we": {}, "they": {},
	"me": {}, "him": {}, "her": {}, "us": {}, "them": {}, "myself": {},
	"yourself": {}, "himself": {}, "herself": {}, "itself": {}, "ourselves": {},
	"themselves": {}, "mine": {}, "yours": {}, "hers": {}, "ours": {},
	"theirs": {}, "this": {}, "that": {}, "these": {}, "those": {}, "who": {},
	"whom": {}, "whose": {}, "which": {}, "what": {}, "someone": {},
	"anyone": {}, "everyone": {}, "nobody": {}, "something": {}, "anything": {},
	"everything": {}, "nothing": {},
}

var commonVerbs = map[string]struct{}{
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"am": {}, "do": {}, "does": {}, "did": {}, "have": {}, "has": {}, "had": {},
	"can": {}, "could": {}, "will": {}, "would": {}, "shall": {}, "should": {},
	"may": {}, "might": {}, "must": {}, "go": {}, "goes": {}, "went": {},
	"make": {}, "makes": {}, "made": {}, "get": {}, "gets": {}, "got": {},
	"take": {}, "takes": {}, "took": {}, "see": {}, "sees": {}, "saw": {},
	"know": {}, "knows": {}, "knew": {}, "think": {}, "thinks": {}, "thought": {},
	"find": {}, "finds": {}, "found": {}, "give": {}, "gives": {}, "gave": {},
	"use": {}, "uses": {}, "used": {}, "explain": {}, "explains": {},
	"describe": {}, "describes": {}, "calculate": {}, "calculates": {},
	"solve": {}, "solves": {}, "compare": {}, "compares": {}, "define": {},
	"defines": {}, "identify": {}, "identifies": {}, "write": {}, "writes": {},
	"wrote": {}, "read": {}, "reads": {}, "say": {}, "says": {}, "said": {},
}

var commonAdjectives = map[string]struct{}{
	"good": {}, "bad": {}, "big": {}, "small": {}, "large": {}, "new": {},
	"old": {}, "high": {}, "low": {}, "long": {}, "short": {}, "easy": {},
	"hard": {}, "difficult": {}, "simple": {}, "complex": {}, "important": {},
	"main": {}, "major": {}, "minor": {}, "correct": {}, "incorrect": {},
	"right": {}, "wrong": {}, "true": {}, "false": {}, "same": {},
	"different": {}, "first": {}, "last": {}, "best": {}, "worst": {},
	"common": {}, "rare": {}, "early": {}, "late": {}, "full": {}, "empty": {},
}

// Polarity valences, VADER-style but far smaller. Signed unit weights keep
// the compound transform simple.
var positiveWords = map[string]struct{}{
	"good": {}, "great": {}, "excellent": {}, "correct": {}, "right": {},
	"well": {}, "best": {}, "better": {}, "clear": {}, "clearly": {},
	"helpful": {}, "easy": {}, "useful": {}, "accurate": {}, "precise": {},
	"complete": {}, "thorough": {}, "strong": {}, "perfect": {}, "success": {},
	"successful": {}, "improve": {}, "improved": {}, "effective": {},
	"love": {}, "like": {}, "nice": {}, "happy": {}, "positive": {},
	"interesting": {}, "valid": {}, "true": {},
}

var negativeWords = map[string]struct{}{
	"bad": {}, "poor": {}, "wrong": {}, "incorrect": {}, "fail": {},
	"failed": {}, "failure": {}, "worst": {}, "worse": {}, "hard": {},
	"difficult": {}, "confusing": {}, "confused": {}, "unclear": {},
	"incomplete": {}, "weak": {}, "error": {}, "errors": {}, "mistake": {},
	"mistakes": {}, "problem": {}, "problems": {}, "missing": {}, "lack": {},
	"hate": {}, "dislike": {}, "sad": {}, "negative": {}, "false": {},
	"invalid": {}, "never": {}, "impossible": {},
}

var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "neither": {}, "nor": {}, "cannot": {},
	"can't": {}, "don't": {}, "doesn't": {}, "didn't": {}, "isn't": {},
	"aren't": {}, "wasn't": {}, "weren't": {}, "won't": {}, "without": {},
}

// Stopwords is the fixed stopword set used for lexical-diversity features.
// It mirrors the usual English list trimmed to frozen essentials.
var Stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "if": {},
	"of": {}, "at": {}, "by": {}, "for": {}, "with": {}, "about": {},
	"against": {}, "between": {}, "into": {}, "through": {}, "during": {},
	"before": {}, "after": {}, "above": {}, "below": {}, "to": {}, "from": {},
	"up": {}, "down": {}, "in": {}, "out": {}, "on": {}, "off": {}, "over": {},
	"under": {}, "again": {}, "further": {}, "then": {}, "once": {}, "here": {},
	"there": {}, "when": {}, "where": {}, "why": {}, "how": {}, "all": {},
	"any": {}, "both": {}, "each": {}, "few": {}, "more": {}, "most": {},
	"other": {}, "some": {}, "such": {}, "only": {}, "own": {}, "so": {},
	"than": {}, "too": {}, "very": {}, "just": {}, "because": {}, "as": {},
	"until": {}, "while": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "will": {}, "would": {}, "should": {},
	"can": {}, "could": {}, "may": {}, "might": {}, "must": {}, "shall": {},
	"i": {}, "you": {}, "he": {}, "she": {}, "it": {}, "we": {}, "they": {},
	"me": {}, "him": {}, "her": {}, "us": {}, "them": {}, "my": {}, "your": {},
	"his": {}, "its": {}, "our": {}, "their": {}, "this": {}, "that": {},
	"these": {}, "those": {}, "what": {}, "which": {}, "who": {}, "whom": {},
	"not": {}, "no": {}, "nor": {}, "same": {},
}
