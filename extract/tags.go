package extract

import (
	"github.com/agext/levenshtein"
)

// tag identifies one annotation rule.
type tag uint8

const (
	tagNone tag = iota
	tagModule
	tagMathStructure
	tagMorphism
	tagSection
	tagSkipSection
	tagDefinition
	tagParagraph
	tagAssertion
	tagExample
	tagProof
	tagSubProof
	tagExercise
	tagSubExercise
	tagDocTitle
	tagTitle
	tagSymdecl
	tagVardecl
	tagVarseq
	tagNotation
	tagNotationComp
	tagNotationOpComp
	tagDefiniendum
	tagType
	tagConclusion
	tagDefiniens
	tagRule
	tagArgSep
	tagArgMap
	tagArgMapSep
	tagArg
	tagHeadTerm
	tagTerm
	tagInvisible
	tagImportModule
	tagUseModule
	tagInputref
	tagIfInputref
	tagSetSectionLevel
	tagPrecondition
	tagObjective
	tagSolution
	tagAnswerClass
	tagProblemHint
	tagProblemNote
	tagProblemGradingNote
	tagComp
	tagVarComp
	tagMainComp
	tagDefComp
	tagAssign
)

// rule binds a tag to the attribute key that triggers it.
type rule struct {
	tag     tag
	key     string
	aliases []string
}

// rules is the dispatch table. Rules run in this order on every element,
// and tokens close in reverse order, so e.g. a term closes before the
// argument, type or definiens slot on the same element consumes it.
var rules = []rule{
	{tagModule, "module", nil},
	{tagMathStructure, "mathstructure", []string{"feature-structure"}},
	{tagMorphism, "morphism", []string{"feature-morphism"}},
	{tagSection, "section", nil},
	{tagSkipSection, "skipsection", nil},
	{tagDefinition, "definition", nil},
	{tagParagraph, "paragraph", nil},
	{tagAssertion, "assertion", nil},
	{tagExample, "example", nil},
	{tagProof, "proof", nil},
	{tagSubProof, "subproof", nil},
	{tagExercise, "exercise", []string{"problem"}},
	{tagSubExercise, "subexercise", []string{"subproblem"}},
	{tagDocTitle, "doctitle", nil},
	{tagTitle, "title", nil},
	{tagSymdecl, "symdecl", nil},
	{tagVardecl, "vardecl", []string{"vardef"}},
	{tagVarseq, "varseq", nil},
	{tagNotation, "notation", nil},
	{tagNotationComp, "notationcomp", nil},
	{tagNotationOpComp, "notationopcomp", nil},
	{tagDefiniendum, "definiendum", nil},
	{tagType, "type", nil},
	{tagConclusion, "conclusion", nil},
	{tagDefiniens, "definiens", nil},
	{tagRule, "rule", nil},
	{tagArgSep, "argsep", nil},
	{tagArgMap, "argmap", nil},
	{tagArgMapSep, "argmap-sep", nil},
	{tagArg, "arg", nil},
	{tagHeadTerm, "headterm", nil},
	{tagTerm, "term", nil},
	{tagInvisible, "invisible", nil},
	{tagImportModule, "importmodule", []string{"import"}},
	{tagUseModule, "usemodule", nil},
	{tagInputref, "inputref", nil},
	{tagIfInputref, "ifinputref", nil},
	{tagSetSectionLevel, "setsectionlevel", []string{"sectionlevel"}},
	{tagPrecondition, "preconditiondimension", nil},
	{tagObjective, "objectivedimension", nil},
	{tagSolution, "solution", nil},
	{tagAnswerClass, "answerclass", nil},
	{tagProblemHint, "problemhint", nil},
	{tagProblemNote, "problemnote", nil},
	{tagProblemGradingNote, "problemgnote", nil},
	{tagComp, "comp", nil},
	{tagVarComp, "varcomp", nil},
	{tagMainComp, "maincomp", nil},
	{tagDefComp, "defcomp", nil},
	{tagAssign, "assign", nil},
}

// Keys that only carry arguments of other rules.
var argumentKeys = []string{
	"id", "language", "metatheory", "signature", "macroname", "domain",
	"total", "inline", "fors", "styles", "autogradable", "points",
	"problempoints", "args", "role", "assoctype", "reordering",
	"reorderargs", "bind", "fragment", "notationfragment", "precedence",
	"argprecs", "head", "notationid", "argmode", "argnum",
	"preconditionsymbol", "objectivesymbol", "answerclass-pts",
	"answerclass-feedback", "proofbody", "proofhide",
	"proofmethod", "prooftitle", "proofterm", "frame", "slide",
	"slide-number",
}

var (
	ruleByKey = make(map[string]int)
	knownKeys []string
)

func init() {
	for i, r := range rules {
		ruleByKey[r.key] = i
		knownKeys = append(knownKeys, r.key)
		for _, a := range r.aliases {
			ruleByKey[a] = i
		}
	}
	knownKeys = append(knownKeys, argumentKeys...)
}

var isArgumentKey = func() map[string]bool {
	m := make(map[string]bool, len(argumentKeys))
	for _, k := range argumentKeys {
		m[k] = true
	}
	return m
}()

// suggest returns the known key closest to key.
func suggest(key string) string {
	best, dist := "", -1
	for _, k := range knownKeys {
		d := levenshtein.Distance(key, k, nil)
		if dist < 0 || d < dist {
			best, dist = k, d
		}
	}
	if dist > len(key)/2+1 {
		return ""
	}
	return best
}
