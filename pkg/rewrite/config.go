package rewrite

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/treepatch/pkg/span"
	"github.com/Sumatoshi-tech/treepatch/pkg/tree"
)

// Built-in strategy names.
const (
	StrategyEqual     = "equal"
	StrategyRecursive = "recursive"
	StrategyPrint     = "print"
)

// Configuration errors, all reported by NewTable before any rewrite runs.
var (
	ErrNoStrategies    = errors.New("rewrite: kind has no applicable strategy")
	ErrUnknownStrategy = errors.New("rewrite: unknown strategy")
	ErrDuplicateKind   = errors.New("rewrite: duplicate kind")
	ErrBadFieldConfig  = errors.New("rewrite: invalid field config")
	ErrUnknownKind     = errors.New("rewrite: kind not in table")
)

// Category names the syntactic slot a kind's printed text parses back as
// (e.g. "file", "stmt", "expr"). It is passed verbatim to Language.Parse.
// A kind without a category cannot use the print strategy.
type Category string

// PrecSpec declares how to compute the ExprPrec for one child field. At
// most one of Fixed / LeftOf / RightOf is set; LeftOf and RightOf name the
// sibling token field holding the binary operator whose precedence applies.
type PrecSpec struct {
	Fixed   *int8  `yaml:"fixed,omitempty"`
	Plus    bool   `yaml:"plus,omitempty"`
	LeftOf  string `yaml:"left_of,omitempty"`
	RightOf string `yaml:"right_of,omitempty"`
	Class   string `yaml:"class,omitempty"`
}

// Prec classes accepted in PrecSpec.Class.
const (
	classNormal = ""
	classCond   = "cond"
	classCallee = "callee"
)

// FieldConfig tunes reconciliation of one structural field.
type FieldConfig struct {
	Name      string    `yaml:"name"`
	Ignore    bool      `yaml:"ignore,omitempty"`
	Sequence  bool      `yaml:"sequence,omitempty"`
	Separator string    `yaml:"separator,omitempty"`
	Prec      *PrecSpec `yaml:"prec,omitempty"`
	PrecFirst *PrecSpec `yaml:"prec_first,omitempty"`
}

// KindConfig is the per-kind behavior table entry: which strategies apply
// and in which order, whether the kind is ignored entirely, how its printed
// text reparses, and per-field tuning.
type KindConfig struct {
	Kind     string `yaml:"kind"`
	Ignore   bool   `yaml:"ignore,omitempty"`
	Category string `yaml:"category,omitempty"`

	// Strategies, when set, completely overrides the default strategy
	// selection. ExtraStrategies are inserted between the structural
	// strategies and print.
	Strategies      []string `yaml:"strategies,omitempty"`
	ExtraStrategies []string `yaml:"extra_strategies,omitempty"`

	// NoRecursive disables the recursive strategy for kinds whose fields
	// cannot be reconciled independently.
	NoRecursive bool `yaml:"no_recursive,omitempty"`

	// SeqItem marks kinds that may appear in identity-aligned sequences.
	SeqItem bool `yaml:"seq_item,omitempty"`

	// ContainsExpr resets the precedence context on entering any child
	// field that has no explicit PrecSpec of its own.
	ContainsExpr bool `yaml:"contains_expr,omitempty"`

	Fields []FieldConfig `yaml:"fields,omitempty"`
}

// RecoverFunc is an optional per-kind recovery hook. During the recovery
// walk after a full reprint it may salvage original source text in place of
// freshly printed text by calling Ctxt.Splice (targeting reparsed's span in
// the printed text) and returning true, which stops descent into reparsed.
// restriction, when non-nil, limits salvage to that old-source span.
type RecoverFunc func(restriction *span.Span, reparsed, new *tree.Node, rcx *Ctxt) bool

// StrategyFunc is a kind-specific extra strategy. It reports whether its
// recorded edits are a valid substitute for old's span; on false the
// dispatcher rewinds past everything it recorded.
type StrategyFunc func(rw *Rewriter, old, new *tree.Node, rcx *Ctxt) (bool, error)

// Extensions carries the non-declarative parts of a table: custom strategy
// implementations and per-kind recovery hooks.
type Extensions struct {
	Strategies map[string]StrategyFunc
	Recover    map[tree.Kind]RecoverFunc
}

type kindInfo struct {
	cfg        KindConfig
	kind       tree.Kind
	category   Category
	strategies []string
	fields     map[string]*FieldConfig
	recover    RecoverFunc
}

func (ki *kindInfo) field(name string) *FieldConfig {
	if fc, ok := ki.fields[name]; ok {
		return fc
	}

	return &FieldConfig{Name: name}
}

// Table is the per-kind configuration consulted by the dispatcher. It is
// built once at startup; construction validates every entry so that
// strategy exhaustion by misconfiguration cannot surface mid-rewrite.
type Table struct {
	kinds      map[tree.Kind]*kindInfo
	strategies map[string]StrategyFunc
}

// NewTable validates kind configs against ext and builds the table.
func NewTable(kinds []KindConfig, ext Extensions) (*Table, error) {
	t := &Table{
		kinds:      make(map[tree.Kind]*kindInfo, len(kinds)),
		strategies: ext.Strategies,
	}

	for _, kc := range kinds {
		if kc.Kind == "" {
			return nil, fmt.Errorf("%w: empty kind name", ErrBadFieldConfig)
		}

		kind := tree.Kind(kc.Kind)
		if _, dup := t.kinds[kind]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKind, kc.Kind)
		}

		ki, err := buildKindInfo(kc, ext)
		if err != nil {
			return nil, err
		}

		t.kinds[kind] = ki
	}

	return t, nil
}

// LoadKindsYAML decodes a declarative kind table.
func LoadKindsYAML(data []byte) ([]KindConfig, error) {
	var doc struct {
		Kinds []KindConfig `yaml:"kinds"`
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode kind table: %w", err)
	}

	return doc.Kinds, nil
}

func buildKindInfo(kc KindConfig, ext Extensions) (*kindInfo, error) {
	ki := &kindInfo{
		cfg:      kc,
		kind:     tree.Kind(kc.Kind),
		category: Category(kc.Category),
		fields:   make(map[string]*FieldConfig, len(kc.Fields)),
		recover:  ext.Recover[tree.Kind(kc.Kind)],
	}

	for i := range kc.Fields {
		fc := &kc.Fields[i]
		if fc.Name == "" {
			return nil, fmt.Errorf("%w: kind %s: unnamed field", ErrBadFieldConfig, kc.Kind)
		}

		if fc.Sequence && fc.Separator == "" {
			return nil, fmt.Errorf("%w: kind %s: sequence field %s needs a separator",
				ErrBadFieldConfig, kc.Kind, fc.Name)
		}

		if err := validatePrecSpec(kc.Kind, fc.Name, fc.Prec); err != nil {
			return nil, err
		}

		if err := validatePrecSpec(kc.Kind, fc.Name, fc.PrecFirst); err != nil {
			return nil, err
		}

		ki.fields[fc.Name] = fc
	}

	if kc.Ignore {
		return ki, nil
	}

	ki.strategies = strategyList(kc)
	if len(ki.strategies) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoStrategies, kc.Kind)
	}

	for _, name := range ki.strategies {
		if err := checkStrategy(kc, name, ext); err != nil {
			return nil, err
		}
	}

	return ki, nil
}

// strategyList resolves the ordered strategy list for a kind: an explicit
// override wins; otherwise equal, then recursive unless disabled, then
// extras, then print when the kind supports round-tripping.
func strategyList(kc KindConfig) []string {
	if kc.Strategies != nil {
		return kc.Strategies
	}

	list := []string{StrategyEqual}

	if !kc.NoRecursive {
		list = append(list, StrategyRecursive)
	}

	list = append(list, kc.ExtraStrategies...)

	if kc.Category != "" {
		list = append(list, StrategyPrint)
	}

	return list
}

func checkStrategy(kc KindConfig, name string, ext Extensions) error {
	switch name {
	case StrategyEqual, StrategyRecursive:
		return nil
	case StrategyPrint:
		if kc.Category == "" {
			return fmt.Errorf("%w: kind %s uses print without a parse category",
				ErrBadFieldConfig, kc.Kind)
		}

		return nil
	default:
		if _, ok := ext.Strategies[name]; !ok {
			return fmt.Errorf("%w: %q for kind %s", ErrUnknownStrategy, name, kc.Kind)
		}

		return nil
	}
}

func validatePrecSpec(kind, field string, ps *PrecSpec) error {
	if ps == nil {
		return nil
	}

	sources := 0
	if ps.Fixed != nil {
		sources++
	}

	if ps.LeftOf != "" {
		sources++
	}

	if ps.RightOf != "" {
		sources++
	}

	if sources > 1 {
		return fmt.Errorf("%w: kind %s field %s: conflicting precedence sources",
			ErrBadFieldConfig, kind, field)
	}

	switch ps.Class {
	case classNormal, classCond, classCallee:
		return nil
	default:
		return fmt.Errorf("%w: kind %s field %s: unknown prec class %q",
			ErrBadFieldConfig, kind, field, ps.Class)
	}
}

// kind returns the table entry for k.
func (t *Table) kind(k tree.Kind) (*kindInfo, error) {
	ki, ok := t.kinds[k]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, k)
	}

	return ki, nil
}
