package models

// ProgressStep is one entry of the customer-facing production tracker.
type ProgressStep struct {
	Step      int    `json:"step"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// Progress is the tracker shown on the customer's order page.
type Progress struct {
	CurrentStep int            `json:"current_step"`
	Steps       []ProgressStep `json:"steps"`
}

// progressStages maps tracker steps 3..11 onto pipeline statuses. Step 11 also
// covers completed orders.
var progressStages = []struct {
	name   string
	status Status
}{
	{"Designing", StatusDesigning},
	{"Laser Cutting", StatusLaserCutting},
	{"Metal Bending", StatusMetalBending},
	{"Fabrication (Welding)", StatusFabricationWelding},
	{"Finishing", StatusFinishing},
	{"Powder Coating", StatusPowderCoating},
	{"Assembling", StatusAssembling},
	{"Quality Check", StatusQualityCheck},
	{"Dispatch", StatusDispatch},
}

// stageIndex returns the position of s within the production stages, or -1.
func stageIndex(s Status) int {
	if s == StatusCompleted {
		return len(progressStages) - 1
	}
	for i, stage := range progressStages {
		if stage.status == s {
			return i
		}
	}
	return -1
}

// ProgressFor builds the eleven-step tracker for an order status. Rejected and
// cancelled orders only show the first step as done.
func ProgressFor(s Status) Progress {
	idx := stageIndex(s)
	approved := s != StatusPending && s != StatusRejected && s != StatusCancelled

	steps := []ProgressStep{
		{Step: 1, Name: "Order Received", Completed: true},
		{Step: 2, Name: "Approved", Completed: approved},
	}
	for i, stage := range progressStages {
		steps = append(steps, ProgressStep{
			Step:      i + 3,
			Name:      stage.name,
			Completed: idx >= i,
		})
	}

	current := 1
	switch {
	case s == StatusApproved:
		current = 2
	case idx >= 0:
		current = idx + 3
	}

	return Progress{CurrentStep: current, Steps: steps}
}
