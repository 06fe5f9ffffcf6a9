package engine

// Header is the identity block every native struct starts with.
type Header struct {
	NUser       int
	NUserEnd    int
	Description string
}

// ID returns the user number.
func (h Header) ID() int { return h.NUser }

// NameValue is a named amount in the engine's list form.
type NameValue struct {
	Name  string
	Value float64
}

type Isotope struct {
	IsotopeNumber    float64
	ElementName      string
	IsotopeName      string
	Total            float64
	Ratio            float64
	RatioUncertainty float64
}

type Solution struct {
	Header
	Tc             float64
	PH             float64
	PE             float64
	Mu             float64
	AH2O           float64
	TotalH         float64
	TotalO         float64
	CB             float64
	MassWater      float64
	TotalAlk       float64
	Totals         []NameValue
	MasterActivity []NameValue
	SpeciesGamma   []NameValue
	Isotopes       []Isotope
}

type ExchComp struct {
	Formula         string
	Moles           float64
	LA              float64
	CB              float64
	PhaseName       string
	PhaseProportion float64
	RateName        string
	FormulaZ        float64
	FormulaTotals   []NameValue
	Totals          []NameValue
}

type Exchange struct {
	Header
	PitzerGammas int
	Comps        []ExchComp
}

// GasPhase.Type values.
const (
	GasTypePressure = 0
	GasTypeVolume   = 1
)

type GasPhase struct {
	Header
	Type        int
	TotalP      float64
	TotalMoles  float64
	Volume      float64
	Temperature float64
	Comps       []NameValue
}

type KineticsComp struct {
	RateName string
	Tol      float64
	M        float64
	M0       float64
	Moles    float64
	Parms    []float64
	List     []NameValue
}

type Kinetics struct {
	Header
	Steps      []float64
	StepDivide float64
	RK         int
	BadStepMax int
	UseCVODE   int
	Totals     []NameValue
	Comps      []KineticsComp
}

type PureComp struct {
	Name         string
	AddFormula   string
	SI           float64
	Moles        float64
	Delta        float64
	InitialMoles float64
	DissolveOnly int
}

type PPAssemblage struct {
	Header
	EltList []NameValue
	Comps   []PureComp
}

type SolidSolution struct {
	Name        string
	A0          float64
	A1          float64
	AG0         float64
	AG1         float64
	Miscibility int
	XB1         float64
	XB2         float64
	Comps       []NameValue
}

type SSAssemblage struct {
	Header
	SolidSolutions []SolidSolution
}

type SurfaceComp struct {
	Formula         string
	Moles           float64
	LA              float64
	CB              float64
	ChargeName      string
	PhaseName       string
	PhaseProportion float64
	RateName        string
	FormulaZ        float64
	Totals          []NameValue
}

type SurfaceCharge struct {
	Name         string
	SpecificArea float64
	Grams        float64
	CB           float64
	MassWater    float64
	LAPsi        float64
}

type Surface struct {
	Header
	Type            string
	DLType          string
	OnlyCounterIons int
	Thickness       float64
	Comps           []SurfaceComp
	Charges         []SurfaceCharge
}

type MixComp struct {
	N        int
	Fraction float64
}

type Mix struct {
	Header
	Comps []MixComp
}

type Reaction struct {
	Header
	Units           string
	Steps           []float64
	CountSteps      int
	EqualIncrements int
	Reactants       []NameValue
	Elements        []NameValue
}

type Temperature struct {
	Header
	Temps      []float64
	CountTemps int
}
