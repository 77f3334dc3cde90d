package xbrl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// instanceXML is a trimmed-down XBRL instance in the pure XML form.
const instanceXML = `<?xml version="1.0" encoding="UTF-8"?>
<xbrli:xbrl xmlns:xbrli="http://www.xbrl.org/2003/instance" xmlns:us-gaap="http://fasb.org/us-gaap/2023"
  xmlns:dei="http://xbrl.sec.gov/dei/2023" xmlns:xbrldi="http://xbrl.org/2006/xbrldi"
  xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <xbrli:context id="FY2023">
    <xbrli:entity><xbrli:identifier scheme="http://www.sec.gov/CIK">0000320193</xbrli:identifier></xbrli:entity>
    <xbrli:period><xbrli:startDate>2022-09-25</xbrli:startDate><xbrli:endDate>2023-09-30</xbrli:endDate></xbrli:period>
  </xbrli:context>
  <xbrli:context id="FY2023_iPhone">
    <xbrli:entity>
      <xbrli:identifier scheme="http://www.sec.gov/CIK">0000320193</xbrli:identifier>
      <xbrli:segment><xbrldi:explicitMember dimension="srt:ProductOrServiceAxis">aapl:IPhoneMember</xbrldi:explicitMember></xbrli:segment>
    </xbrli:entity>
    <xbrli:period><xbrli:startDate>2022-09-25</xbrli:startDate><xbrli:endDate>2023-09-30</xbrli:endDate></xbrli:period>
  </xbrli:context>
  <xbrli:context id="FY2022">
    <xbrli:entity><xbrli:identifier scheme="http://www.sec.gov/CIK">0000320193</xbrli:identifier></xbrli:entity>
    <xbrli:period><xbrli:startDate>2021-09-26</xbrli:startDate><xbrli:endDate>2022-09-24</xbrli:endDate></xbrli:period>
  </xbrli:context>
  <xbrli:context id="I2023">
    <xbrli:entity><xbrli:identifier scheme="http://www.sec.gov/CIK">0000320193</xbrli:identifier></xbrli:entity>
    <xbrli:period><xbrli:instant>09/30/2023</xbrli:instant></xbrli:period>
  </xbrli:context>
  <xbrli:context id="NoPeriod">
    <xbrli:entity><xbrli:identifier scheme="http://www.sec.gov/CIK">0000320193</xbrli:identifier></xbrli:entity>
  </xbrli:context>
  <xbrli:context>
    <xbrli:period><xbrli:instant>2023-09-30</xbrli:instant></xbrli:period>
  </xbrli:context>

  <dei:DocumentType contextRef="FY2023">10-K</dei:DocumentType>
  <dei:DocumentPeriodEndDate contextRef="FY2023">2023-09-30</dei:DocumentPeriodEndDate>

  <us-gaap:Revenues contextRef="FY2023_iPhone" unitRef="usd" decimals="-6">200583000000</us-gaap:Revenues>
  <us-gaap:Revenues contextRef="FY2022" unitRef="usd" decimals="-6">394328000000</us-gaap:Revenues>
  <us-gaap:Revenues contextRef="FY2023" unitRef="usd" decimals="-6">383285000000</us-gaap:Revenues>
  <us-gaap:CostOfGoodsAndServicesSold contextRef="FY2023" unitRef="usd" decimals="-6">214137000000</us-gaap:CostOfGoodsAndServicesSold>
  <us-gaap:NetIncomeLoss contextRef="FY2023" unitRef="usd" xsi:nil="true"/>
  <us-gaap:OperatingIncomeLoss contextRef="FY2023" unitRef="usd" decimals="-6">114301000000</us-gaap:OperatingIncomeLoss>
  <us-gaap:CashAndCashEquivalentsAtCarryingValue contextRef="I2023" unitRef="usd">29965000000</us-gaap:CashAndCashEquivalentsAtCarryingValue>
  <us-gaap:LongTermDebtNoncurrent contextRef="NoPeriod" unitRef="usd">1</us-gaap:LongTermDebtNoncurrent>
  <us-gaap:StockholdersEquity contextRef="Unknown" unitRef="usd">5</us-gaap:StockholdersEquity>
  <us-gaap:ProfitLoss unitRef="usd">7</us-gaap:ProfitLoss>
</xbrli:xbrl>
`

// defaultNamespaceXML declares its taxonomy as the default namespace, so facts carry no prefix.
const defaultNamespaceXML = `<?xml version="1.0" encoding="UTF-8"?>
<xbrl xmlns="http://www.xbrl.org/2003/instance" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <context id="c">
    <entity><identifier scheme="http://www.sec.gov/CIK">1</identifier></entity>
    <period><startDate>2023-01-01</startDate><endDate>2023-12-31</endDate></period>
  </context>
  <NetIncomeLoss contextRef="c" unitRef="usd" xsi:nil="true"/>
  <OperatingIncomeLoss contextRef="c" unitRef="usd">100</OperatingIncomeLoss>
  <br/>
  <ProfitLoss contextRef="c" unitRef="usd">7</ProfitLoss>
</xbrl>
`

// inlineHTML is a trimmed-down inline XBRL (iXBRL) quarterly filing.
const inlineHTML = `<html xmlns="http://www.w3.org/1999/xhtml" xmlns:ix="http://www.xbrl.org/2013/inlineXBRL">
<head><title>aapl-20231230</title></head>
<body>
<div style="display:none">
<ix:header>
  <ix:hidden>
    <ix:nonNumeric name="dei:DocumentType" contextRef="Q1">10-Q</ix:nonNumeric>
  </ix:hidden>
  <ix:resources>
    <xbrli:context id="Q1">
      <xbrli:entity><xbrli:identifier scheme="http://www.sec.gov/CIK">0000320193</xbrli:identifier></xbrli:entity>
      <xbrli:period><xbrli:startDate>2023-10-01</xbrli:startDate><xbrli:endDate>2023-12-30</xbrli:endDate></xbrli:period>
    </xbrli:context>
    <xbrli:context id="Q1_Americas">
      <xbrli:entity>
        <xbrli:identifier scheme="http://www.sec.gov/CIK">0000320193</xbrli:identifier>
        <xbrli:segment><xbrldi:explicitMember dimension="us-gaap:StatementBusinessSegmentsAxis">aapl:AmericasSegmentMember</xbrldi:explicitMember></xbrli:segment>
      </xbrli:entity>
      <xbrli:period><xbrli:startDate>2023-10-01</xbrli:startDate><xbrli:endDate>2023-12-30</xbrli:endDate></xbrli:period>
    </xbrli:context>
    <xbrli:context id="BS">
      <xbrli:entity><xbrli:identifier scheme="http://www.sec.gov/CIK">0000320193</xbrli:identifier></xbrli:entity>
      <xbrli:period><xbrli:instant>2023-12-30</xbrli:instant></xbrli:period>
    </xbrli:context>
  </ix:resources>
</ix:header>
</div>
<p>For the quarterly period ended <ix:nonNumeric name="dei:DocumentPeriodEndDate" contextRef="Q1" format="ixt:date-monthname-day-year-en">December&#160;30, 2023</ix:nonNumeric></p>
<table>
<tr><td>Net sales (Americas)</td><td>$<ix:nonFraction name="us-gaap:RevenueFromContractWithCustomerExcludingAssessedTax" contextRef="Q1_Americas" unitRef="usd" decimals="-6" scale="6">50,430</ix:nonFraction></td></tr>
<tr><td>Total net sales</td><td>$<ix:nonFraction name="us-gaap:RevenueFromContractWithCustomerExcludingAssessedTax" contextRef="Q1" unitRef="usd" decimals="-6" scale="6">119,575</ix:nonFraction></td></tr>
<tr><td>Cost of sales</td><td><ix:nonFraction name="us-gaap:CostOfGoodsAndServicesSold" contextRef="Q1" unitRef="usd" decimals="-6" scale="6">64,720</ix:nonFraction></td></tr>
<tr><td>Net loss</td><td>(<ix:nonFraction name="us-gaap:NetIncomeLoss" contextRef="Q1" unitRef="usd" decimals="-3" scale="3" sign="-">1,250</ix:nonFraction>)</td></tr>
<tr><td>Dividends</td><td><ix:nonFraction name="us-gaap:PaymentsOfDividendsCommonStock" contextRef="Q1" unitRef="usd" scale="-2">375000</ix:nonFraction></td></tr>
<tr><td>Repurchases</td><td><ix:nonFraction name="us-gaap:PaymentsForRepurchaseOfCommonStock" contextRef="Q1" unitRef="usd" scale="6" format="ixt:fixed-zero">—</ix:nonFraction></td></tr>
<tr><td>Cash</td><td><ix:nonFraction name="us-gaap:CashAndCashEquivalentsAtCarryingValue" contextRef="BS" unitRef="usd" decimals="-6" scale="6">40,760</ix:nonFraction></td></tr>
</table>
</body>
</html>
`

func mustLoad(t *testing.T, markup string) *Document {
	t.Helper()
	doc, err := Load(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}
