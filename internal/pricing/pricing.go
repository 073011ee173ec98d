package pricing

import (
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/DrGermanius/Bogocargo/internal/model"
)

var (
	minDimension = decimal.NewFromFloat(0.01)
	roundingStep = decimal.NewFromInt(500)
)

type Rates struct {
	Base  decimal.Decimal
	PerKg decimal.Decimal
	PerM3 decimal.Decimal
}

var DefaultRates = Rates{
	Base:  decimal.NewFromInt(15000),
	PerKg: decimal.NewFromInt(800),
	PerM3: decimal.NewFromInt(120000),
}

var riskFactors = map[model.Category]decimal.Decimal{
	model.CategoryDry:          decimal.NewFromInt(1),
	model.CategoryElectronics:  decimal.RequireFromString("1.10"),
	model.CategoryPerishable:   decimal.RequireFromString("1.15"),
	model.CategoryRefrigerated: decimal.RequireFromString("1.20"),
	model.CategoryFragile:      decimal.RequireFromString("1.25"),
	model.CategoryHazardous:    decimal.RequireFromString("1.30"),
}

// RiskFactor returns the multiplier for a merchandise category, 1.00 when unknown.
func RiskFactor(c model.Category) decimal.Decimal {
	if f, ok := riskFactors[c]; ok {
		return f
	}
	return decimal.NewFromInt(1)
}

type Route struct {
	Origin      string
	Destination string
}

type DistanceStrategy interface {
	Factor(Route) decimal.Decimal
}

// RandomDistance simulates a distance multiplier in [1.00, 1.50].
type RandomDistance struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomDistance(seed int64) *RandomDistance {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomDistance{rnd: rand.New(rand.NewSource(seed))}
}

func (d *RandomDistance) Factor(Route) decimal.Decimal {
	d.mu.Lock()
	cents := 100 + d.rnd.Intn(51)
	d.mu.Unlock()
	return decimal.New(int64(cents), -2)
}

type FixedDistance decimal.Decimal

func (f FixedDistance) Factor(Route) decimal.Decimal {
	return decimal.Decimal(f).Round(2)
}

type Quote struct {
	Price          decimal.Decimal `json:"price"`
	VolumeM3       decimal.Decimal `json:"volumeM3"`
	RiskFactor     decimal.Decimal `json:"riskFactor"`
	DistanceFactor decimal.Decimal `json:"distanceFactor"`
}

type Engine struct {
	rates    Rates
	distance DistanceStrategy
}

func NewEngine(rates Rates, distance DistanceStrategy) *Engine {
	if distance == nil {
		distance = NewRandomDistance(0)
	}
	return &Engine{rates: rates, distance: distance}
}

func (e *Engine) BaseRate() decimal.Decimal {
	return e.rates.Base
}

// Compute never fails: out-of-range cargo values are raised to their minimums first.
func (e *Engine) Compute(c model.Cargo, r Route) Quote {
	c = clamp(c)

	volume := c.LengthM.Mul(c.HeightM).Mul(c.WidthM).Mul(decimal.NewFromInt(int64(c.Units))).Round(2)

	cost := e.rates.Base.
		Add(c.WeightKg.Mul(e.rates.PerKg)).
		Add(volume.Mul(e.rates.PerM3))

	risk := RiskFactor(c.Category)
	distance := e.distance.Factor(r)
	cost = cost.Mul(risk).Mul(distance)

	price := cost.Div(roundingStep).Ceil().Mul(roundingStep)
	if price.LessThan(e.rates.Base) {
		price = e.rates.Base
	}

	return Quote{
		Price:          price,
		VolumeM3:       volume,
		RiskFactor:     risk,
		DistanceFactor: distance,
	}
}

func clamp(c model.Cargo) model.Cargo {
	if c.WeightKg.IsNegative() {
		c.WeightKg = decimal.Zero
	}
	if c.Units < 1 {
		c.Units = 1
	}
	for _, d := range []*decimal.Decimal{&c.LengthM, &c.HeightM, &c.WidthM} {
		if d.LessThan(minDimension) {
			*d = minDimension
		}
	}
	return c
}

// Coerce converts raw cargo input into decimals. Blank, unparseable or negative values are
// replaced by safe minimums; the names of fields that were unparseable or negative are returned.
func Coerce(in model.CargoInput) (model.Cargo, []string) {
	var invalid []string

	c := model.Cargo{Category: model.Category(strings.ToUpper(strings.TrimSpace(in.Category)))}

	c.DeclaredValue, invalid = coerceDecimal("declaredValue", in.DeclaredValue, decimal.Zero, invalid)
	c.WeightKg, invalid = coerceDecimal("weightKg", in.WeightKg, decimal.Zero, invalid)
	c.LengthM, invalid = coerceDecimal("lengthM", in.LengthM, minDimension, invalid)
	c.HeightM, invalid = coerceDecimal("heightM", in.HeightM, minDimension, invalid)
	c.WidthM, invalid = coerceDecimal("widthM", in.WidthM, minDimension, invalid)

	c.Units = 1
	if s := strings.TrimSpace(in.Units); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			invalid = append(invalid, "units")
		} else {
			c.Units = n
		}
	}

	return c, invalid
}

func coerceDecimal(field, raw string, min decimal.Decimal, invalid []string) (decimal.Decimal, []string) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return min, invalid
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return min, append(invalid, field)
	}
	if d.LessThan(min) {
		return min, invalid
	}
	return d, invalid
}
