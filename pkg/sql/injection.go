package sql

import (
	"sort"

	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult contains the result of an injection check on a filter value.
type InjectionCheckResult struct {
	IsSQLi      bool   // True if SQL injection pattern detected
	Fingerprint string // libinjection fingerprint of the detected pattern
	ParamName   string // Name of the filter that failed the check
	ParamValue  string // The value that was checked
}

// CheckParameterForInjection uses libinjection to detect SQL injection patterns
// in a single filter value.
//
// Filter values are always bound as parameters, so a detection never changes
// the query; it is only reported to the security audit log.
//
// Example:
//
//	result := CheckParameterForInjection("q", "jean dupont")
//	// result == nil
//
//	result = CheckParameterForInjection("q", "'; DROP TABLE contacts--")
//	// result.IsSQLi == true
//	// result.ParamName == "q"
func CheckParameterForInjection(paramName, value string) *InjectionCheckResult {
	if value == "" {
		return nil
	}

	isSQLi, fingerprint := libinjection.IsSQLi(value)
	if !isSQLi {
		return nil
	}
	return &InjectionCheckResult{
		IsSQLi:      true,
		Fingerprint: string(fingerprint),
		ParamName:   paramName,
		ParamValue:  value,
	}
}

// CheckAllParameters screens every filter value and returns one result per
// suspicious value, ordered by filter name. Returns an empty slice when all
// values are clean.
func CheckAllParameters(params map[string]string) []*InjectionCheckResult {
	results := make([]*InjectionCheckResult, 0)
	for name, value := range params {
		if result := CheckParameterForInjection(name, value); result != nil {
			results = append(results, result)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].ParamName < results[j].ParamName
	})
	return results
}
