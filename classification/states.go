package classification

// State is the top-level operational state of a turbine at one timestamp.
type State string

const (
	StateProducing           State = "PRODUCING"
	StateExplained           State = "NOT_PRODUCING_EXPLAINED"
	StateVerificationPending State = "NOT_PRODUCING_VERIFICATION_PENDING"
	StateUnexpected          State = "NOT_PRODUCING_UNEXPECTED"
	StateDataMissing         State = "DATA_MISSING"
)

// Subcategory refines a State into the concrete cause the classifier found.
type Subcategory string

const (
	SubNormalOperation        Subcategory = "NORMAL_OPERATION"
	SubAlarmActive            Subcategory = "ALARM_ACTIVE"
	SubCurtailmentActive      Subcategory = "CURTAILMENT_ACTIVE"
	SubConfirmedLowWind       Subcategory = "CONFIRMED_LOW_WIND"
	SubStartupPostLowWind     Subcategory = "STARTUP_POST_LOW_WIND"
	SubStartupPostAlarm       Subcategory = "STARTUP_POST_ALARM"
	SubSuspectedLowWind       Subcategory = "SUSPECTED_LOW_WIND"
	SubStartupUnclear         Subcategory = "STARTUP_UNCLEAR"
	SubSensorErrorLow         Subcategory = "SENSOR_ERROR_LOW"
	SubSensorErrorAnomalous   Subcategory = "SENSOR_ERROR_ANOMALOUS"
	SubMechanicalControlIssue Subcategory = "MECHANICAL_CONTROL_ISSUE"
	SubUnknownNonProduction   Subcategory = "UNKNOWN_NON_PRODUCTION"
	SubDataMissingWithAlarm   Subcategory = "DATA_MISSING_WITH_ALARM"
	SubDataMissingNoAlarm     Subcategory = "DATA_MISSING_NO_ALARM"
)

// WindCondition is the assessor's verdict on ambient wind at a record.
type WindCondition string

const (
	WindConfirmedLow        WindCondition = "CONFIRMED_LOW_WIND"
	WindSuspectedLow        WindCondition = "SUSPECTED_LOW_WIND"
	WindSufficientConfirmed WindCondition = "SUFFICIENT_CONFIRMED"
	WindSufficientSuspected WindCondition = "SUFFICIENT_SUSPECTED"
)

// StateMeta is the static display metadata of a State.
type StateMeta struct {
	Code  int    `json:"code"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

var stateMeta = map[State]StateMeta{
	StateProducing:           {Code: 1, Name: "Producing", Color: "#28a745"},
	StateExplained:           {Code: 2, Name: "Not Producing - Explained", Color: "#ffc107"},
	StateVerificationPending: {Code: 3, Name: "Not Producing - Verification Pending", Color: "#fd7e14"},
	StateUnexpected:          {Code: 4, Name: "Not Producing - Unexpected", Color: "#dc3545"},
	StateDataMissing:         {Code: 5, Name: "Data Missing", Color: "#adb5bd"},
}

var subcategoryLabels = map[Subcategory]string{
	SubNormalOperation:        "Normal Operation",
	SubAlarmActive:            "Alarm Active",
	SubCurtailmentActive:      "Curtailment Active",
	SubConfirmedLowWind:       "Confirmed Low Wind",
	SubStartupPostLowWind:     "Startup Sequence (Post-Low Wind)",
	SubStartupPostAlarm:       "Startup Sequence (Post-Alarm)",
	SubSuspectedLowWind:       "Suspected Low Wind",
	SubStartupUnclear:         "Startup Sequence (Trigger Unclear)",
	SubSensorErrorLow:         "Suspected Sensor Error (Low Reading)",
	SubSensorErrorAnomalous:   "Suspected Sensor Error (Anomalous Reading)",
	SubMechanicalControlIssue: "Suspected Mechanical/Control Issue",
	SubUnknownNonProduction:   "Unknown Non-Production",
	SubDataMissingWithAlarm:   "Data Missing (Alarm Active)",
	SubDataMissingNoAlarm:     "Data Missing (No Alarm)",
}

// Meta returns the display metadata of a state. Unknown states map to the
// unexpected bucket so presentation code never sees a zero value.
func (s State) Meta() StateMeta {
	if meta, ok := stateMeta[s]; ok {
		return meta
	}
	return stateMeta[StateUnexpected]
}

// Label returns the human-readable name of a subcategory.
func (c Subcategory) Label() string {
	if label, ok := subcategoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// AllStates returns the declared states in code order.
func AllStates() []State {
	return []State{
		StateProducing,
		StateExplained,
		StateVerificationPending,
		StateUnexpected,
		StateDataMissing,
	}
}
