package classifier

import (
	"fmt"
	"strings"

	"github.com/naijatax/backend/internal/model"
)

var deductionTypeList = func() string {
	names := make([]string, len(model.DeductionTypes))
	for i, dt := range model.DeductionTypes {
		names[i] = string(dt)
	}
	return strings.Join(names, "|")
}()

func verificationPrompt(tx model.Transaction) string {
	return fmt.Sprintf(`Analyze this Nigerian bank transaction for personal income tax deductibility under the Nigeria Tax Act 2025.
Analyze: %q - %s

Return JSON only: {"isVerified": boolean, "confidence": number between 0 and 1, "reasoning": string, "suggestedDeductionType": "%s"}`,
		tx.Description, model.FormatNaira(tx.Amount), deductionTypeList)
}

func categorizationPrompt(description string, amount model.Kobo) string {
	return fmt.Sprintf(`Categorize this Nigerian bank transaction for personal income tax purposes.
Categorize: %q - %s

Return JSON only: {"category": string, "deductionType": "%s", "isDeductible": boolean, "confidence": number between 0 and 1, "reasoning": string}`,
		description, model.FormatNaira(amount), deductionTypeList)
}
