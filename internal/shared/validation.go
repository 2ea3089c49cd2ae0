package shared

import (
	"errors"
	"regexp"
	"strings"
)

var (
	emailRegex     = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	accountIdRegex = regexp.MustCompile(`^\d{12}$`)
	ouIdRegex      = regexp.MustCompile(`^(ou-[0-9a-z]{4,32}-[a-z0-9]{8,32}|r-[0-9a-z]{4,32})$`)
)

// FindEmail returns the first email-shaped substring of s.
func FindEmail(s string) (string, bool) {
	match := emailRegex.FindString(s)
	return match, match != ""
}

// validate email address
func IsValidEmail(s string) bool {
	match, ok := FindEmail(s)
	return ok && match == s
}

// validate 12 digit aws account id
func IsValidAccountId(accountId string) bool {
	return accountIdRegex.MatchString(accountId)
}

// validate organizational unit or root id
func IsValidParentId(parentId string) bool {
	return ouIdRegex.MatchString(parentId)
}

// ValidateComplianceEvent checks the fields every compliance event must carry.
func ValidateComplianceEvent(event ComplianceEvent) error {
	missing := []string{}
	if event.AccountId == "" {
		missing = append(missing, "accountId")
	}
	if event.ResourceType == "" {
		missing = append(missing, "resourceType")
	}
	if event.ResourceId == "" {
		missing = append(missing, "resourceId")
	}
	if event.AwsRegion == "" {
		missing = append(missing, "awsRegion")
	}
	if event.NewEvaluationResult.ComplianceType == "" {
		missing = append(missing, "newEvaluationResult.complianceType")
	}
	if len(missing) > 0 {
		return errors.New("missing required fields [" + strings.Join(missing, ", ") + "]")
	}
	return nil
}
