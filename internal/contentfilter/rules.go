package contentfilter

import "regexp"

// Violation labels. These are the tokens surfaced in Result.Violations and
// consumed by PrimaryReason.
const (
	ViolationEmail         = "email"
	ViolationPhone         = "phone"
	ViolationSocial        = "social"
	ViolationURL           = "url"
	ViolationDomain        = "domain"
	ViolationSpelledNumber = "spelled_number"
	ViolationTaxID         = "tax_id"
	ViolationBypassIntent  = "bypass_intent"
	ViolationDigitRun      = "digit_run"
)

// whitelistPatterns neutralize legitimate numeric content (prices, dates,
// times, postal codes, percentages, event quantities) before any rule
// runs, so "R$ 1.500" or "mesa 12" never trips a phone rule. They are
// applied to a working copy only; the caller's text is untouched.
var whitelistPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)r\$\s*\d{1,3}(?:\.\d{3})*(?:,\d{2})?`),
	regexp.MustCompile(`(?i)\b\d+(?:\.\d{3})*(?:,\d{2})?\s*(?:reais|real|mil)\b`),
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}(?:/\d{2,4})?\b`),
	regexp.MustCompile(`\b\d{1,2}:\d{2}\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}h\d{2}\b`),
	regexp.MustCompile(`\b\d{5}-\d{3}\b`), // CEP
	regexp.MustCompile(`\b\d{1,3}(?:,\d+)?\s*%`),
	regexp.MustCompile(`(?i)\b(?:mesas?|convidados?|pessoas?|lugares?|assentos?|vagas?)\s*(?:n[º°o]?\s*)?\d{1,4}\b`),
	regexp.MustCompile(`(?i)\b\d{1,4}\s*(?:mesas?|convidados?|pessoas?|lugares?|assentos?|vagas?)\b`),
}

type rule struct {
	label   string
	pattern *regexp.Regexp
}

// rules is evaluated in order against the whitelisted working text. Order
// matters: earlier rules redact their matches before later rules run, so
// an e-mail address does not additionally fire the social-handle rule.
var rules = []rule{
	{ViolationEmail, regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)},
	{ViolationEmail, regexp.MustCompile(`(?i)\b[a-z0-9._\-]+\s*[(\[]?\s*(?:arroba|at)\s*[)\]]?\s*[a-z0-9\-]+\s*[(\[]?\s*(?:ponto|dot)\s*[)\]]?\s*[a-z]{2,}\b`)},
	{ViolationTaxID, regexp.MustCompile(`\b\d{3}\.\d{3}\.\d{3}-\d{2}\b`)},            // CPF
	{ViolationTaxID, regexp.MustCompile(`\b\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}\b`)},      // CNPJ
	{ViolationURL, regexp.MustCompile(`(?i)\bhttps?://\S+`)},
	{ViolationURL, regexp.MustCompile(`(?i)\b(?:bit\.ly|tinyurl\.com|t\.me|wa\.me|linktr\.ee|encurtador\.com\.br)/\S+`)},
	{ViolationPhone, regexp.MustCompile(`\b(?:\+?55[\s.\-]?)?(?:\(\d{2}\)[\s.\-]?|\d{2}[\s.\-])?\d{4,5}[-.\s]\d{4}\b`)},
	{ViolationPhone, regexp.MustCompile(`\b\d{8,11}\b`)},
	{ViolationPhone, regexp.MustCompile(`\b(?:\d[\s.\-_,]+){7,}\d\b`)},
	{ViolationSocial, regexp.MustCompile(`(?i)(?:^|\s)@[a-z0-9_.]{2,}\b`)},
	{ViolationSocial, regexp.MustCompile(`(?i)\b(?:whatsapp|whats|zap|insta|instagram|telegram|tiktok|facebook|face|snapchat|signal|discord)\b`)},
	{ViolationSpelledNumber, regexp.MustCompile(`(?i)\b(?:(?:zero|um|uma|dois|duas|tr[eê]s|quatro|cinco|seis|sete|oito|nove|meia)[\s,.\-]+){4,}(?:zero|um|uma|dois|duas|tr[eê]s|quatro|cinco|seis|sete|oito|nove|meia)\b`)},
	{ViolationBypassIntent, regexp.MustCompile(`(?i)(?:fechar?\s+(?:por\s+)?fora|fechamos\s+(?:por\s+)?fora|(?:por\s+)?fora\s+da\s+plataforma|sair?\s+da\s+plataforma|manda(?:r)?\s+(?:o\s+)?pix\s+direto|pix\s+direto|me\s+chama\s+no|sem\s+(?:a\s+)?taxa|direto\s+comigo|negociar?\s+direto)`)},
	{ViolationDomain, regexp.MustCompile(`(?i)\b[a-z0-9\-]+\.(?:com\.br|com|net|org|io|me|app|site|online|link|br)\b(?:/\S*)?`)},
	{ViolationDigitRun, regexp.MustCompile(`\b\d{12,}\b`)},
	{ViolationDigitRun, regexp.MustCompile(`\b\d{5,7}\b`)},
}

// severityByLabel is the lattice input: the aggregate severity of a
// message is the highest severity among its violations.
var severityByLabel = map[string]Severity{
	ViolationEmail:         SeverityHigh,
	ViolationPhone:         SeverityHigh,
	ViolationURL:           SeverityHigh,
	ViolationSocial:        SeverityHigh,
	ViolationTaxID:         SeverityHigh,
	ViolationSpelledNumber: SeverityMedium,
	ViolationBypassIntent:  SeverityMedium,
	ViolationDigitRun:      SeverityMedium,
	ViolationDomain:        SeverityMedium,
}
