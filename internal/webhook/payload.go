package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pooltablesquad/backoffice/internal/models"
)

// The form provider posts submissions as multipart form data with one field,
// rawRequest, holding the answers as JSON. Question keys are stable per form
// ("q5_email"), sub-objects carry composite answers, and booleans arrive as
// the strings "true" and "false". The types below absorb those quirks so the
// handlers work with clean Go values.

type jotName struct {
	First string `json:"first"`
	Last  string `json:"last"`
}

type jotPhone struct {
	Full string `json:"full"`
}

type jotAddress struct {
	Line1  string `json:"addr_line1"`
	Line2  string `json:"addr_line2"`
	City   string `json:"city"`
	State  string `json:"state"`
	Postal string `json:"postal"`
}

func (a jotAddress) toAddress() models.Address {
	return models.Address{
		Line1:  optional(a.Line1),
		Line2:  optional(a.Line2),
		City:   optional(a.City),
		State:  optional(a.State),
		Postal: optional(a.Postal),
	}
}

// jotDate is a split date answer. Format renders it as YYYY-MM-DD, or nil when
// any component is missing.
type jotDate struct {
	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`
}

func (d jotDate) Format() *string {
	if d.Year == "" || d.Month == "" || d.Day == "" {
		return nil
	}
	formatted := fmt.Sprintf("%s-%s-%s", d.Year, pad2(d.Month), pad2(d.Day))

	return &formatted
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}

	return s
}

// jotBool accepts the provider's string-typed booleans alongside real ones.
// Anything other than true or "true" is false.
type jotBool bool

func (b *jotBool) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("true")) || bytes.Equal(trimmed, []byte(`"true"`)) {
		*b = true
		return nil
	}
	*b = false

	return nil
}

// optional maps the provider's empty strings onto nil so blank answers never
// overwrite stored customer data downstream.
func optional(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// requestPayload is the main service-request form.
type requestPayload struct {
	Email string   `json:"q5_email"`
	Name  jotName  `json:"q3_name"`
	Phone jotPhone `json:"q4_phoneNumber"`

	PoolTableBrand  string `json:"q117_poolTableBrand"`
	OtherTableBrand string `json:"q118_otherTableBrand"`
	PoolTableSize   string `json:"q25_poolTableSize"`
	PoolTableStyle  string `json:"q27_poolTableStyle"`
	PoolTableSlate  string `json:"q28_poolTableSlate"`

	ServiceLooking  string `json:"q60_serviceLooking"`
	FeltPreference  string `json:"q19_feltPreference"`
	ColorPreference string `json:"q20_colorPreference"`
	OtherService    string `json:"q79_otherService"`

	AssemblyAddress jotAddress `json:"q10_assemblyAddress"`
	MoveAddress     jotAddress `json:"q99_moveAddress"`
	DeliveryAddress jotAddress `json:"q102_deliveryAddress"`
	RepairsAddress  jotAddress `json:"q115_repairsAddress"`

	FlightsAssembly string `json:"q83_flightsAssembly"`
	DeliveryFlights string `json:"q103_deliveryFlights"`

	PreferredDate  jotDate `json:"q48_preferredDate"`
	PreferredDate2 jotDate `json:"q49_preferredDate2"`
	PreferredDate3 jotDate `json:"q50_preferredDate3"`
	AnythingElse   string  `json:"q35_anythingElse"`

	GoogleAds   jotBool `json:"q53_googleAds"`
	BingAds     jotBool `json:"q119_bingAds"`
	FacebookAds jotBool `json:"q120_facebookAds"`
	AdBlocker   jotBool `json:"q51_adBlocker"`

	OtherRepairs      []string `json:"q59_otherRepairs"`
	WhatRepairs       []string `json:"q113_whatRepairs"`
	AccessoriesMoving []string `json:"q105_accessoriesMoving"`
	OtherAccessories  string   `json:"q106_otherAccessories"`
	ServicesLooking   []string `json:"q108_servicesLooking"`

	TablePhotos  []string `json:"tablePhotos"`
	PocketImages []string `json:"pocketImages"`
}

// repairs merges the two repair checkbox groups, dropping duplicates while
// keeping first-seen order.
func (p *requestPayload) repairs() []string {
	seen := make(map[string]struct{}, len(p.OtherRepairs)+len(p.WhatRepairs))
	var merged []string
	for _, repair := range append(append([]string{}, p.OtherRepairs...), p.WhatRepairs...) {
		if _, ok := seen[repair]; ok {
			continue
		}
		seen[repair] = struct{}{}
		merged = append(merged, repair)
	}

	return merged
}

// accessories expands the "Other" checkbox with its free-text answer.
func (p *requestPayload) accessories() []string {
	var accessories []string
	for _, accessory := range p.AccessoriesMoving {
		if accessory == "Other" && p.OtherAccessories != "" {
			accessories = append(accessories, "Other: "+p.OtherAccessories)
			continue
		}
		accessories = append(accessories, accessory)
	}

	return accessories
}

func (p *requestPayload) toModel() *models.TableRequest {
	return &models.TableRequest{
		Email:       p.Email,
		NameFirst:   optional(p.Name.First),
		NameLast:    optional(p.Name.Last),
		PhoneNumber: optional(p.Phone.Full),

		PoolTableBrand:  optional(p.PoolTableBrand),
		OtherTableBrand: optional(p.OtherTableBrand),
		PoolTableSize:   optional(p.PoolTableSize),
		PoolTableStyle:  optional(p.PoolTableStyle),
		PoolTableSlate:  optional(p.PoolTableSlate),

		ServiceLooking:  optional(p.ServiceLooking),
		FeltPreference:  optional(p.FeltPreference),
		ColorPreference: optional(p.ColorPreference),
		OtherService:    optional(p.OtherService),

		AssemblyAddress: p.AssemblyAddress.toAddress(),
		MoveAddress:     p.MoveAddress.toAddress(),
		DeliveryAddress: p.DeliveryAddress.toAddress(),
		RepairsAddress:  p.RepairsAddress.toAddress(),

		FlightsAssembly: optional(p.FlightsAssembly),
		DeliveryFlights: optional(p.DeliveryFlights),

		PreferredDate:  p.PreferredDate.Format(),
		PreferredDate2: p.PreferredDate2.Format(),
		PreferredDate3: p.PreferredDate3.Format(),
		AnythingElse:   optional(p.AnythingElse),

		GoogleAds:   bool(p.GoogleAds),
		BingAds:     bool(p.BingAds),
		FacebookAds: bool(p.FacebookAds),
		AdBlocker:   bool(p.AdBlocker),

		RepairsRequested:  p.repairs(),
		Accessories:       p.accessories(),
		ServicesRequested: p.ServicesLooking,
		TablePhotos:       p.TablePhotos,
		PocketImages:      p.PocketImages,
	}
}

// contactPayload is the "contact us" form.
type contactPayload struct {
	Email    string   `json:"q5_email"`
	Name     jotName  `json:"q3_name"`
	Phone    jotPhone `json:"q4_phoneNumber"`
	Comments string   `json:"q6_commentOr"`
}

// sellingPayload is the "sell your table" form.
type sellingPayload struct {
	Email       string   `json:"q69_email"`
	Name        jotName  `json:"q83_name"`
	Phone       jotPhone `json:"q68_phoneNumber"`
	TableBrand  string   `json:"q1_tableBrand"`
	TableModel  string   `json:"q82_tableModel"`
	TableSize   string   `json:"q4_typeA"`
	City        string   `json:"q51_city"`
	State       string   `json:"q52_state"`
	AskingPrice string   `json:"q24_askingPrice"`
	Defects     string   `json:"q20_tableDefects"`
	SellerNotes string   `json:"q27_sellerNotes"`

	TableSide        []string `json:"tableSide"`
	TableSide2       []string `json:"tableImage11"`
	TableTop         []string `json:"tableImage12"`
	TableUnderneath  []string `json:"tableImage13"`
	AdditionalPhotos []string `json:"additionalPhotos"`
	DefectPhotos     []string `json:"defectPhotos"`
}

// images gathers every uploaded photo across the form's upload slots. The
// four fixed slots contribute at most their first file each.
func (p *sellingPayload) images() []string {
	var urls []string
	appendFirst := func(slot []string) {
		if len(slot) > 0 && slot[0] != "" {
			urls = append(urls, slot[0])
		}
	}
	appendFirst(p.TableSide)
	appendFirst(p.TableSide2)
	appendFirst(p.TableTop)
	appendFirst(p.TableUnderneath)

	for _, slot := range [][]string{p.AdditionalPhotos, p.DefectPhotos} {
		for _, url := range slot {
			if url != "" {
				urls = append(urls, url)
			}
		}
	}

	return urls
}

// buyingPayload is the "looking to buy" modal.
type buyingPayload struct {
	Email            string   `json:"q44_email"`
	Name             jotName  `json:"q50_name"`
	Phone            jotPhone `json:"q46_phoneNumber"`
	City             string   `json:"q45_city"`
	State            string   `json:"q47_state"`
	Budget           string   `json:"q40_budgetincluding"`
	DesiredTableSize string   `json:"q51_desiredTable51"`
}

// inquiryPayload is a question about a listed table.
type inquiryPayload struct {
	Email          string  `json:"q4_email"`
	Name           jotName `json:"q3_name"`
	QuestionsAbout string  `json:"q5_questionsAbout"`
	ProductID      string  `json:"q6_productId"`
	ProductURL     string  `json:"q7_productUrl"`
}

func parsePayload(raw string, dest any) error {
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("failed to parse rawRequest payload: %w", err)
	}

	return nil
}
