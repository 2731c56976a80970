// File: internal/infra/sepa/pain001.go

// Package sepa renders issued invoices as a pain.001.001.03 customer credit
// transfer initiation, the format municipal accounting imports to reimburse
// suppliers.
package sepa

import (
	"encoding/xml"
	"fmt"
	"time"

	"municipal-benefits/internal/domain"
	"municipal-benefits/internal/domain/model"
)

const namespace = "urn:iso:std:iso:20022:tech:xsd:pain.001.001.03"

type document struct {
	XMLName xml.Name `xml:"Document"`
	Xmlns   string   `xml:"xmlns,attr"`
	Initn   initiation
}

type initiation struct {
	XMLName xml.Name    `xml:"CstmrCdtTrfInitn"`
	GrpHdr  groupHeader `xml:"GrpHdr"`
	PmtInf  paymentInfo `xml:"PmtInf"`
}

type groupHeader struct {
	MsgID    string `xml:"MsgId"`
	CreDtTm  string `xml:"CreDtTm"`
	NbOfTxs  int    `xml:"NbOfTxs"`
	CtrlSum  string `xml:"CtrlSum"`
	InitgPty party  `xml:"InitgPty"`
}

type party struct {
	Nm string `xml:"Nm"`
}

type paymentInfo struct {
	PmtInfID  string     `xml:"PmtInfId"`
	PmtMtd    string     `xml:"PmtMtd"`
	NbOfTxs   int        `xml:"NbOfTxs"`
	CtrlSum   string     `xml:"CtrlSum"`
	ReqdExctn string     `xml:"ReqdExctnDt"`
	Dbtr      party      `xml:"Dbtr"`
	DbtrAcct  account    `xml:"DbtrAcct"`
	DbtrAgt   *agent     `xml:"DbtrAgt,omitempty"`
	Txs       []transfer `xml:"CdtTrfTxInf"`
}

type account struct {
	IBAN string `xml:"Id>IBAN"`
}

type agent struct {
	BIC string `xml:"FinInstnId>BIC"`
}

type transfer struct {
	EndToEndID string `xml:"PmtId>EndToEndId"`
	Amount     amount `xml:"Amt>InstdAmt"`
	Cdtr       party  `xml:"Cdtr"`
	CdtrAcct   account `xml:"CdtrAcct"`
	RmtInf     string `xml:"RmtInf>Ustrd"`
}

type amount struct {
	Ccy   string `xml:"Ccy,attr"`
	Value string `xml:",chardata"`
}

// eur renders cents as a decimal euro string without going through floats.
func eur(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// BuildPain001 produces the XML document covering the given issued invoices.
// The tenant is the debtor; every invoice is one credit transfer to its
// supplier's IBAN.
func BuildPain001(tenant *model.Tenant, invoices []*model.Invoice, suppliers map[string]*model.Supplier, createdAt time.Time) ([]byte, error) {
	if tenant.IsZero() || tenant.CreditorIBAN == "" {
		return nil, fmt.Errorf("tenant %q has no creditor account: %w", tenant.ID, domain.ErrInvalidArgument)
	}
	if len(invoices) == 0 {
		return nil, fmt.Errorf("no invoices to export: %w", domain.ErrInvalidArgument)
	}

	var total int64
	txs := make([]transfer, 0, len(invoices))
	for _, inv := range invoices {
		sup := suppliers[inv.SupplierID]
		if sup.IsZero() || sup.IBAN == "" {
			return nil, fmt.Errorf("supplier %q for invoice %q has no IBAN: %w", inv.SupplierID, inv.Number, domain.ErrInvalidArgument)
		}
		total += inv.TotalCents
		txs = append(txs, transfer{
			EndToEndID: inv.Number,
			Amount:     amount{Ccy: "EUR", Value: eur(inv.TotalCents)},
			Cdtr:       party{Nm: sup.Name},
			CdtrAcct:   account{IBAN: sup.IBAN},
			RmtInf:     fmt.Sprintf("Invoice %s %s", inv.Number, inv.PeriodStart.Format("2006-01")),
		})
	}

	msgID := fmt.Sprintf("MB-%s-%s", tenant.Slug, createdAt.UTC().Format("20060102150405"))
	debtorName := tenant.CreditorName
	if debtorName == "" {
		debtorName = tenant.Name
	}

	doc := document{
		Xmlns: namespace,
		Initn: initiation{
			GrpHdr: groupHeader{
				MsgID:    msgID,
				CreDtTm:  createdAt.UTC().Format("2006-01-02T15:04:05"),
				NbOfTxs:  len(txs),
				CtrlSum:  eur(total),
				InitgPty: party{Nm: debtorName},
			},
			PmtInf: paymentInfo{
				PmtInfID:  msgID + "-1",
				PmtMtd:    "TRF",
				NbOfTxs:   len(txs),
				CtrlSum:   eur(total),
				ReqdExctn: createdAt.UTC().Format("2006-01-02"),
				Dbtr:      party{Nm: debtorName},
				DbtrAcct:  account{IBAN: tenant.CreditorIBAN},
				Txs:       txs,
			},
		},
	}
	if tenant.CreditorBIC != "" {
		doc.Initn.PmtInf.DbtrAgt = &agent{BIC: tenant.CreditorBIC}
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal pain.001: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
