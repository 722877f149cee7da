package rate

// Condition is one trigger of a Rule. Reason is reported when it fires.
type Condition[In any] struct {
    Reason string
    Test   func(In) bool
}

// Rule fires its Type when any of its conditions hold.
type Rule[In any] struct {
    Type SurchargeType
    Any  []Condition[In]
}

// Match reports the reason of the first condition that holds.
func (r Rule[In]) Match(in In) (string, bool) {
    for _, c := range r.Any {
        if c.Test(in) {
            return c.Reason, true
        }
    }
    return "", false
}

// Rules is evaluated in order; the first matching rule wins.
type Rules[In any] []Rule[In]

// Classify returns the first matching rule's type and reason, or SurchargeOK.
func (rs Rules[In]) Classify(in In) (SurchargeType, string) {
    for _, r := range rs {
        if reason, ok := r.Match(in); ok {
            return r.Type, reason
        }
    }
    return SurchargeOK, ""
}

// Find returns the rule with the given type.
func (rs Rules[In]) Find(t SurchargeType) (Rule[In], bool) {
    for _, r := range rs {
        if r.Type == t {
            return r, true
        }
    }
    return Rule[In]{}, false
}
