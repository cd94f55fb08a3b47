package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file. ghodss/yaml decodes through
// encoding/json, so the keys are carried by json tags.
type SolverParameters struct {
	Title               string  `json:"Title"`
	BilinearRule        string  `json:"BilinearRule"` // midpoint, midpoint-ps12, gauss, gauss-ps12
	BilinearOrder       int     `json:"BilinearOrder"`
	LinearRule          string  `json:"LinearRule"`
	LinearOrder         int     `json:"LinearOrder"`
	BoundaryStrategy    string  `json:"BoundaryStrategy"` // interpolation or projection
	ProjectionOrder     int     `json:"ProjectionOrder"`
	ProjectionTolerance float64 `json:"ProjectionTolerance"`
	ProjectionMaxIter   int     `json:"ProjectionMaxIterations"`
	Workers             int     `json:"Workers"`
	ReportCondition     bool    `json:"ReportCondition"`
	CheckSymmetry       bool    `json:"CheckSymmetry"`
	Refinement          int     `json:"Refinement"` // cells per side of the unit square
}

// NewSolverParameters returns the defaults used when a field is absent
func NewSolverParameters() *SolverParameters {
	return &SolverParameters{
		Title:               "Clamped plate",
		BilinearRule:        "gauss-ps12",
		BilinearOrder:       4,
		LinearRule:          "gauss-ps12",
		LinearOrder:         6,
		BoundaryStrategy:    "interpolation",
		ProjectionOrder:     6,
		ProjectionTolerance: 1.e-10,
		ProjectionMaxIter:   5000,
		Workers:             1,
		Refinement:          4,
	}
}

// Parse overlays the YAML document on the receiver
func (ip *SolverParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *SolverParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s, %d]\t\t= Bilinear Rule, Order\n", ip.BilinearRule, ip.BilinearOrder)
	fmt.Printf("[%s, %d]\t\t= Linear Rule, Order\n", ip.LinearRule, ip.LinearOrder)
	fmt.Printf("[%s]\t\t= Boundary Strategy\n", ip.BoundaryStrategy)
	if ip.BoundaryStrategy == "projection" {
		fmt.Printf("[%d]\t\t\t\t= Projection Order\n", ip.ProjectionOrder)
		fmt.Printf("%8.1e, %d\t\t= Projection Tolerance, Max Iterations\n",
			ip.ProjectionTolerance, ip.ProjectionMaxIter)
	}
	fmt.Printf("[%d]\t\t\t\t= Workers\n", ip.Workers)
	fmt.Printf("[%d]\t\t\t\t= Refinement\n", ip.Refinement)
	fmt.Printf("%v\t\t\t\t= Report Condition\n", ip.ReportCondition)
}
