package model

// HospitalColumns is the canonical hospital_profile header, in output order.
var HospitalColumns = []string{
	"ccn",
	"hospital_name",
	"address",
	"city",
	"state",
	"zip_code",
	"county_name",
	"phone_number",
	"lat",
	"lon",
	"mortality_30d",
	"readmit_30d",
}

// HospitalRecord is one row of the hospital profile. CCN is the unique key;
// every other field may be absent.
type HospitalRecord struct {
	CCN          string   `parquet:"ccn"`
	HospitalName *string  `parquet:"hospital_name,optional"`
	Address      *string  `parquet:"address,optional"`
	City         *string  `parquet:"city,optional"`
	State        *string  `parquet:"state,optional"`
	ZipCode      *string  `parquet:"zip_code,optional"`
	CountyName   *string  `parquet:"county_name,optional"`
	PhoneNumber  *string  `parquet:"phone_number,optional"`
	Lat          *float64 `parquet:"lat,optional"`
	Lon          *float64 `parquet:"lon,optional"`
	Mortality30D *float64 `parquet:"mortality_30d,optional"`
	Readmit30D   *float64 `parquet:"readmit_30d,optional"`
}

// Cells returns the record as CSV cells in HospitalColumns order.
// Absent values become empty cells.
func (r *HospitalRecord) Cells() []string {
	return []string{
		r.CCN,
		str(r.HospitalName),
		str(r.Address),
		str(r.City),
		str(r.State),
		str(r.ZipCode),
		str(r.CountyName),
		str(r.PhoneNumber),
		num(r.Lat),
		num(r.Lon),
		num(r.Mortality30D),
		num(r.Readmit30D),
	}
}

// CopyValues returns the record values in HospitalColumns order, suitable
// for pgx CopyFromSource.
func (r *HospitalRecord) CopyValues() []any {
	return []any{
		r.CCN,
		r.HospitalName,
		r.Address,
		r.City,
		r.State,
		r.ZipCode,
		r.CountyName,
		r.PhoneNumber,
		r.Lat,
		r.Lon,
		r.Mortality30D,
		r.Readmit30D,
	}
}
