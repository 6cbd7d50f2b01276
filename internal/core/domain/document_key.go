package domain

import (
	crand "crypto/rand"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

// Document key layout. Lengths of each segment, in order.
const (
	DocumentKeyLength = 44
	documentKeyBody   = DocumentKeyLength - 1

	regionLen       = 2
	yearMonthLen    = 4
	taxIDLen        = TaxIDLength
	modelLen        = 2
	seriesLen       = 3
	sequenceLen     = 9
	issuanceTypeLen = 1
	numericCodeLen  = 8
)

// Fixed segments used when generating keys.
const (
	DefaultRegionCode   = "35"
	DefaultModel        = "55"
	DefaultSeries       = "001"
	DefaultIssuanceType = "1"

	maxSequence    = 999999999
	maxNumericCode = 99999999
)

// RandomSource provides the random numbers embedded in a document key.
// Implementations must be safe for concurrent use.
type RandomSource interface {
	// Int64N returns a non-negative random number in [0, n).
	Int64N(n int64) int64
}

// lockedRand guards a math/rand generator with a mutex.
type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomSource returns a concurrency-safe RandomSource seeded from crypto/rand.
func NewRandomSource() RandomSource {
	var seed [32]byte
	_, _ = crand.Read(seed[:])
	return &lockedRand{rnd: rand.New(rand.NewChaCha8(seed))}
}

func (r *lockedRand) Int64N(n int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Int64N(n)
}

// DocumentKey is a 44-digit fiscal document key whose last digit is a Módulo 11 check digit.
type DocumentKey string

// String returns the key digits.
func (k DocumentKey) String() string {
	return string(k)
}

// DocumentKeyParts is a document key broken into its segments.
type DocumentKeyParts struct {
	Region       string
	YearMonth    string
	TaxID        TaxID
	Model        string
	Series       string
	Sequence     string
	IssuanceType string
	NumericCode  string
	CheckDigit   string
}

// Parts splits the key into its segments. The key must be valid.
func (k DocumentKey) Parts() DocumentKeyParts {
	s := string(k)
	next := func(n int) string {
		part := s[:n]
		s = s[n:]
		return part
	}
	return DocumentKeyParts{
		Region:       next(regionLen),
		YearMonth:    next(yearMonthLen),
		TaxID:        TaxID(next(taxIDLen)),
		Model:        next(modelLen),
		Series:       next(seriesLen),
		Sequence:     next(sequenceLen),
		IssuanceType: next(issuanceTypeLen),
		NumericCode:  next(numericCodeLen),
		CheckDigit:   next(1),
	}
}

// ParseDocumentKey validates a 44-digit key, including its check digit.
func ParseDocumentKey(s string) (DocumentKey, error) {
	if len(s) != DocumentKeyLength || !isDigits(s) {
		return "", fmt.Errorf("%w: document key must have %d digits, got %q", ErrInvalidLength, DocumentKeyLength, s)
	}
	digit, err := CheckDigit(s[:documentKeyBody])
	if err != nil {
		return "", err
	}
	if int(s[documentKeyBody]-'0') != digit {
		return "", fmt.Errorf("%w: check digit mismatch, expected %d", ErrInvalidInput, digit)
	}
	return DocumentKey(s), nil
}

// CheckDigit computes the Módulo 11 check digit of a 43-digit key body.
//
// Digits are weighted 2..9 from right to left, cycling back to 2. The digit is
// 11 minus the remainder of the weighted sum by 11; results of 0, 10 and 11 all
// become 0.
func CheckDigit(body string) (int, error) {
	if len(body) != documentKeyBody || !isDigits(body) {
		return 0, fmt.Errorf("%w: key body must have %d digits, got %d", ErrInvalidLength, documentKeyBody, len(body))
	}

	sum := 0
	weight := 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}

	digit := 11 - sum%11
	if digit == 0 || digit == 10 || digit == 11 {
		digit = 0
	}
	return digit, nil
}

// KeyGenerator builds fresh document keys for label requests.
type KeyGenerator struct {
	rand RandomSource
	now  func() time.Time
}

// NewKeyGenerator creates a generator. A nil clock defaults to time.Now.
func NewKeyGenerator(src RandomSource, now func() time.Time) *KeyGenerator {
	if now == nil {
		now = time.Now
	}
	return &KeyGenerator{rand: src, now: now}
}

// Generate assembles a document key for the given tax id.
// The sequence number and numeric code are random so that concurrent
// requests do not collide.
func (g *KeyGenerator) Generate(taxID string) (DocumentKey, error) {
	now := g.now()
	sequence := g.rand.Int64N(maxSequence) + 1
	code := g.rand.Int64N(maxNumericCode) + 1

	var b strings.Builder
	b.Grow(DocumentKeyLength)
	b.WriteString(DefaultRegionCode)
	fmt.Fprintf(&b, "%02d%02d", now.Year()%100, int(now.Month()))
	b.WriteString(NormalizeDigits(taxID))
	b.WriteString(DefaultModel)
	b.WriteString(DefaultSeries)
	fmt.Fprintf(&b, "%0*d", sequenceLen, sequence)
	b.WriteString(DefaultIssuanceType)
	fmt.Fprintf(&b, "%0*d", numericCodeLen, code)

	body := b.String()
	if len(body) != documentKeyBody {
		return "", fmt.Errorf("%w: assembled key body has %d digits, want %d", ErrInvalidLength, len(body), documentKeyBody)
	}

	digit, err := CheckDigit(body)
	if err != nil {
		return "", err
	}
	return DocumentKey(fmt.Sprintf("%s%d", body, digit)), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
