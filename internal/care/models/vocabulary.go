package models

// Vocabulary is a closed list of accepted values for an observation field.
type Vocabulary []string

func (v Vocabulary) Contains(value string) bool {
	for _, candidate := range v {
		if candidate == value {
			return true
		}
	}
	return false
}

var (
	ObservationDomains = Vocabulary{
		"Pain & Sensitisation",
		"Movement & Motor Control",
		"Tissue Integrity",
		"Functional Capacity",
		"Neurological",
	}

	AnatomicalContexts = Vocabulary{
		"Cervical Spine",
		"Thoracic Spine",
		"Lumbar Spine",
		"Shoulder Complex",
		"Elbow/Forearm",
		"Wrist/Hand",
		"Hip",
		"Knee",
		"Ankle/Foot",
	}

	TriggerConditions = Vocabulary{
		"Weight-bearing",
		"End-range movement",
		"Sustained posture",
		"Repetitive motion",
		"Morning stiffness",
		"Activity escalation",
	}

	MeasurementTypes = Vocabulary{
		"Visual Analog Scale (VAS)",
		"Range of Motion (ROM)",
		"Strength Grade (Oxford)",
		"Functional Index Score",
		"Palpation Finding",
	}

	ConfidenceLevels = Vocabulary{
		"High",
		"Moderate",
		"Low",
		"Uncertain — needs follow-up",
	}
)
