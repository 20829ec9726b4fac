package kross

import (
	"fmt"
	"krossbooking/lib/textutil"

	"github.com/antzucaro/matchr"
)

// Field identifies a reservation column known to Krossbooking.
type Field int

type fieldInfo struct {
	name string
	// key is used in the request payload columns and as the filter key
	key string
	// label is the column header the reservations table renders
	label string
	// column-only fields cannot appear in filter position
	filterable bool
}

const (
	FieldCode Field = iota
	FieldLabel
	FieldArrival
	FieldNights
	FieldDeparture
	FieldNRooms
	FieldRooms
	FieldOwner
	FieldGuestPortalLink
	FieldNBeds
	FieldDateReservation
	FieldLastUpdate
	FieldChannel
	FieldDateExpiration
	FieldDateCancelation
	FieldStatus
	FieldTotalCharge
	FieldIdConvenzione
	FieldIdPackage
	FieldIdPreventivo
	FieldCountryCode
	FieldIdPartitario
	FieldOrigineLead
	FieldMetodoAcquisizione
	FieldIdMotivoViaggio
	FieldOperatore
	FieldLongStay
	FieldIdAgency
	FieldEmail
	FieldTelephone
	FieldCodUser
	FieldArrivalTime
	FieldDepartureTime
	FieldCheckOutAnticipato
	FieldTotalChargeNoTax
	FieldTotalChargeTax
	FieldTotalChargeBed
	FieldTotalChargeServ
	FieldTotalChargeCleaning
	FieldCommissionAmount
	FieldCommissionAmountChannel
	FieldTotalChargeServNoVat
	FieldTotalChargeCleaningNoVat
	FieldTotalChargeNoVat
	FieldTotalChargeBedNoVat
	FieldCityTaxToPay
	FieldTotalBedToPay
	FieldTotalChargeBedCleaning
	FieldTotalChargeExtra
	FieldTotalPaid
	FieldAmountToPay
	FieldAdvancePayment
	FieldPaymentMethod
	FieldImportoFatturato
	FieldImportoDaFatturare
	FieldDataScadenzaVerificaCc
	FieldDataScadenzaAttesaCc
	FieldTotalDeposit
	FieldTotalPaidWithDeposit
	FieldExpectedPayout
	FieldCurrency
	FieldToPayGuest
	FieldToPayOta

	fieldCount
)

var fieldTable = [fieldCount]fieldInfo{
	FieldCode:                     {name: "CODE", key: "cod_reservation", label: "Code", filterable: true},
	FieldLabel:                    {name: "LABEL", key: "label", label: "Reference", filterable: true},
	FieldArrival:                  {name: "ARRIVAL", key: "arrival", label: "Arrival", filterable: true},
	FieldNights:                   {name: "NIGHTS", key: "nights", label: "Nights", filterable: true},
	FieldDeparture:                {name: "DEPARTURE", key: "departure", label: "Departure", filterable: true},
	FieldNRooms:                   {name: "N_ROOMS", key: "n_rooms", label: "N. Rooms", filterable: true},
	FieldRooms:                    {name: "ROOMS", key: "rooms", label: "Rooms", filterable: true},
	FieldOwner:                    {name: "OWNER", key: "owner", label: "Owner"},
	FieldGuestPortalLink:          {name: "GUEST_PORTAL_LINK", key: "guest_portal", label: "Guest Portal"},
	FieldNBeds:                    {name: "N_BEDS", key: "n_beds", label: "Guests", filterable: true},
	FieldDateReservation:          {name: "DATE_RESERVATION", key: "date_reservation", label: "Reservation Date", filterable: true},
	FieldLastUpdate:               {name: "LAST_UPDATE", key: "last_update", label: "Last operation", filterable: true},
	FieldChannel:                  {name: "CHANNEL", key: "channel", label: "Channel", filterable: true},
	FieldDateExpiration:           {name: "DATE_EXPIRATION", key: "date_expiration", label: "Reservation Date", filterable: true},
	FieldDateCancelation:          {name: "DATE_CANCELATION", key: "date_cancelation", label: "Cancelation date"},
	FieldStatus:                   {name: "STATUS", key: "name_reservation_status", label: "Status", filterable: true},
	FieldTotalCharge:              {name: "TOTAL_CHARGE", key: "tot_charge", label: "Charges"},
	FieldIdConvenzione:            {name: "ID_CONVENZIONE", key: "id_convenzione", label: "Convenzione"},
	FieldIdPackage:                {name: "ID_PACKAGE", key: "id_package", label: "Pacchetto"},
	FieldIdPreventivo:             {name: "ID_PREVENTIVO", key: "id_preventivo", label: "Preventivo"},
	FieldCountryCode:              {name: "COUNTRY_CODE", key: "country_code", label: "Paese"},
	FieldIdPartitario:             {name: "ID_PARTITARIO", key: "id_partitario", label: "Partitario"},
	FieldOrigineLead:              {name: "ORIGINE_LEAD", key: "origine_lead", label: "Origine lead"},
	FieldMetodoAcquisizione:       {name: "METODO_ACQUISIZIONE", key: "metodo_acquisizione", label: "Metodo acquisizione"},
	FieldIdMotivoViaggio:          {name: "ID_MOTIVO_VIAGGIO", key: "id_motivo_viaggio", label: "Motivo del viaggio"},
	FieldOperatore:                {name: "OPERATORE", key: "operatore", label: "Operatore"},
	FieldLongStay:                 {name: "LONG_STAY", key: "long_stay", label: "Long stay"},
	FieldIdAgency:                 {name: "ID_AGENCY", key: "id_agency", label: "Agenzia"},
	FieldEmail:                    {name: "EMAIL", key: "email", label: "Email", filterable: true},
	FieldTelephone:                {name: "TELEPHONE", key: "tel", label: "Telefono", filterable: true},
	FieldCodUser:                  {name: "COD_USER", key: "cod_user", label: "Pagante"},
	FieldArrivalTime:              {name: "ARRIVAL_TIME", key: "arrival_time", label: "Orario arrivo previsto"},
	FieldDepartureTime:            {name: "DEPARTURE_TIME", key: "departure_time", label: "Orario partenza prevista"},
	FieldCheckOutAnticipato:       {name: "CHECK_OUT_ANTICIPATO", key: "check_out_anticipato", label: "Check out anticipato"},
	FieldTotalChargeNoTax:         {name: "TOTAL_CHARGE_NO_TAX", key: "tot_charge_no_tax", label: "Totale senza tasse"},
	FieldTotalChargeTax:           {name: "TOTAL_CHARGE_TAX", key: "tot_charge_tax", label: "Totale tasse"},
	FieldTotalChargeBed:           {name: "TOTAL_CHARGE_BED", key: "tot_charge_bed", label: "Totale pernottamento"},
	FieldTotalChargeServ:          {name: "TOTAL_CHARGE_SERV", key: "tot_charge_serv", label: "Totale servizi"},
	FieldTotalChargeCleaning:      {name: "TOTAL_CHARGE_CLEANING", key: "tot_charge_cleaning", label: "Totale pulizie"},
	FieldCommissionAmount:         {name: "COMMISSION_AMOUNT", key: "commissionamount", label: "Commissioni riscosse"},
	FieldCommissionAmountChannel:  {name: "COMMISSION_AMOUNT_CHANNEL", key: "commissionamount_channel", label: "Commissioni trattenute"},
	FieldTotalChargeServNoVat:     {name: "TOTAL_CHARGE_SERV_NO_VAT", key: "tot_charge_serv_no_vat", label: "Totale servizi senza iva"},
	FieldTotalChargeCleaningNoVat: {name: "TOTAL_CHARGE_CLEANING_NO_VAT", key: "tot_charge_cleaning_no_vat", label: "Totale pulizie senza iva"},
	FieldTotalChargeNoVat:         {name: "TOTAL_CHARGE_NO_VAT", key: "tot_charge_no_vat", label: "Totale senza iva"},
	FieldTotalChargeBedNoVat:      {name: "TOTAL_CHARGE_BED_NO_VAT", key: "tot_charge_bed_no_vat", label: "Totale pernottamento senza iva"},
	FieldCityTaxToPay:             {name: "CITY_TAX_TO_PAY", key: "city_tax_to_pay", label: "Tassa di soggiorno da pagare"},
	FieldTotalBedToPay:            {name: "TOTAL_BED_TO_PAY", key: "tot_bed_to_pay", label: "Totale pernottamento da pagare"},
	FieldTotalChargeBedCleaning:   {name: "TOTAL_CHARGE_BED_CLEANING", key: "tot_charge_bed_cleaning", label: "Totale pernottamento con pulizie"},
	FieldTotalChargeExtra:         {name: "TOTAL_CHARGE_EXTRA", key: "tot_charge_extra", label: "Costi extra"},
	FieldTotalPaid:                {name: "TOTAL_PAID", key: "tot_paid", label: "Importo pagato"},
	FieldAmountToPay:              {name: "AMOUNT_TO_PAY", key: "amount_to_pay", label: "Da pagare"},
	FieldAdvancePayment:           {name: "ADVANCE_PAYMENT", key: "advance_payment", label: "Acconto"},
	FieldPaymentMethod:            {name: "PAYMENT_METHOD", key: "metodo_pagamento", label: "Metodo pagamento"},
	FieldImportoFatturato:         {name: "IMPORTO_FATTURATO", key: "importo_fatturato", label: "Importo fatturato"},
	FieldImportoDaFatturare:       {name: "IMPORTO_DA_FATTURARE", key: "importo_da_fatturare", label: "Importo da fatturare"},
	FieldDataScadenzaVerificaCc:   {name: "DATA_SCADENZA_VERIFICA_CC", key: "data_scadenza_verifica_cc", label: "Data scadenza verifica cc"},
	FieldDataScadenzaAttesaCc:     {name: "DATA_SCADENZA_ATTESA_CC", key: "data_scadenza_attesa_cc", label: "Data scadenza attesa cc"},
	FieldTotalDeposit:             {name: "TOTAL_DEPOSIT", key: "tot_deposit", label: "Deposito cauzionale"},
	FieldTotalPaidWithDeposit:     {name: "TOTAL_PAID_WITH_DEPOSIT", key: "tot_paid_with_deposit", label: "Totale pagato con deposito"},
	FieldExpectedPayout:           {name: "EXPECTED_PAYOUT", key: "expected_payout", label: "Saldo previsto"},
	FieldCurrency:                 {name: "CURRENCY", key: "currency", label: "Valuta"},
	FieldToPayGuest:               {name: "TO_PAY_GUEST", key: "to_pay_guest", label: "To pay guest"},
	FieldToPayOta:                 {name: "TO_PAY_OTA", key: "to_pay_ota", label: "Da pagare al canale"},
}

var (
	fieldsByKey  = map[string]Field{}
	fieldsByName = map[string]Field{}
)

func init() {
	for i, info := range fieldTable {
		f := Field(i)
		if _, exists := fieldsByKey[info.key]; exists {
			panic(fmt.Sprintf("duplicate field key %q", info.key))
		}
		fieldsByKey[info.key] = f

		// constant names and keys win over labels since labels may collide
		fieldsByName[textutil.NormalizeName(info.name)] = f
		fieldsByName[textutil.NormalizeName(info.key)] = f
	}
	for i, info := range fieldTable {
		label := textutil.NormalizeName(info.label)
		if _, exists := fieldsByName[label]; !exists {
			fieldsByName[label] = Field(i)
		}
	}
}

func (f Field) valid() bool {
	return f >= 0 && f < fieldCount
}

// Key returns the wire key of the field, or "" for an unknown field.
func (f Field) Key() string {
	if !f.valid() {
		return ""
	}
	return fieldTable[f].key
}

// Label returns the column header the reservations table uses for the field.
func (f Field) Label() string {
	if !f.valid() {
		return ""
	}
	return fieldTable[f].label
}

func (f Field) Filterable() bool {
	return f.valid() && fieldTable[f].filterable
}

func (f Field) String() string {
	if !f.valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldTable[f].name
}

// AllFields lists every registered field in declaration order.
func AllFields() []Field {
	out := make([]Field, fieldCount)
	for i := range out {
		out[i] = Field(i)
	}
	return out
}

// FieldFromKey resolves a wire key exactly.
func FieldFromKey(key string) (Field, bool) {
	f, ok := fieldsByKey[key]
	return f, ok
}

// FieldFromName resolves a constant name ("N_ROOMS"), a wire key ("n_rooms")
// or a display label ("N. Rooms"), ignoring case and whitespace. When two
// fields share a label, the first declared one is returned.
func FieldFromName(name string) (Field, bool) {
	f, ok := fieldsByName[textutil.NormalizeName(name)]
	return f, ok
}

// SuggestField returns the field whose name, key or label is most similar to
// `name` and the Jaro-Winkler similarity of that match.
func SuggestField(name string) (Field, float64) {
	normalized := textutil.NormalizeName(name)

	var best Field
	var bestSimilarity float64
	for candidate, f := range fieldsByName {
		similarity := matchr.JaroWinkler(normalized, candidate, false)
		if similarity > bestSimilarity || (similarity == bestSimilarity && f < best) {
			bestSimilarity = similarity
			best = f
		}
	}
	return best, bestSimilarity
}
