package contentfilter

// reasonPriority is the fixed order used to pick the single reason shown
// to the user: the most serious one, not an exhaustive list.
var reasonPriority = []string{
	ViolationEmail,
	ViolationPhone,
	ViolationSocial,
	ViolationURL,
	ViolationDomain,
	ViolationBypassIntent,
	ViolationSpelledNumber,
	ViolationTaxID,
	ViolationDigitRun,
}

var reasonText = map[string]string{
	ViolationEmail:         "Não é permitido compartilhar endereços de e-mail antes do pagamento protegido.",
	ViolationPhone:         "Não é permitido compartilhar números de telefone antes do pagamento protegido.",
	ViolationSocial:        "Não é permitido compartilhar redes sociais antes do pagamento protegido.",
	ViolationURL:           "Não é permitido compartilhar links antes do pagamento protegido.",
	ViolationDomain:        "Não é permitido compartilhar links antes do pagamento protegido.",
	ViolationBypassIntent:  "Negociações fora da plataforma não são protegidas. Conclua o pagamento pela plataforma.",
	ViolationSpelledNumber: "Sua mensagem parece conter um número de contato por extenso.",
	ViolationTaxID:         "Não é permitido compartilhar documentos pessoais antes do pagamento protegido.",
	ViolationDigitRun:      "Sua mensagem contém uma sequência de números que não pôde ser verificada.",
}

// PrimaryReason maps a violation set to the single user-facing explanation
// with the highest priority. Returns "" for an empty set.
func PrimaryReason(violations []string) string {
	present := make(map[string]bool, len(violations))
	for _, v := range violations {
		present[v] = true
	}
	for _, label := range reasonPriority {
		if present[label] {
			return reasonText[label]
		}
	}
	return ""
}
