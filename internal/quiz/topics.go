package quiz

// Topic names one selectable quiz scope. An empty Category with Splat unset
// means no filter (mixed); Splat selects across all sample-program
// subcategories regardless of category.
type Topic struct {
	Category    string
	Subcategory string
	Splat       bool
}

// Topics maps callback tags from the topic menus to question filters.
var Topics = map[string]Topic{
	"quiz_lexer":          {Category: "lexer"},
	"quiz_parser":         {Category: "parser"},
	"quiz_semantics":      {Category: "semantics"},
	"quiz_executor":       {Category: "executor"},
	"quiz_cfg":            {Category: "cfg"},
	"quiz_java":           {Category: "java"},
	"quiz_mixed":          {},
	"splat_badlex":        {Category: "lexer", Subcategory: "badlex"},
	"splat_badparse":      {Category: "parser", Subcategory: "badparse"},
	"splat_badsemantics":  {Category: "semantics", Subcategory: "badsemantics"},
	"splat_badexecution":  {Category: "executor", Subcategory: "badexecution"},
	"splat_goodexecution": {Category: "executor", Subcategory: "goodexecution"},
	"splat_random":        {Category: "splat", Splat: true},
}

// IsTopic reports whether a callback tag selects a quiz topic.
func IsTopic(tag string) bool {
	_, ok := Topics[tag]
	return ok
}
