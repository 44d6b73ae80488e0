package model

import "sort"

// Driver is a reconciled driver identity built fresh each run from the asset
// list. Name is the normalized form; DisplayName preserves the original
// spelling for reports.
type Driver struct {
	Name        string
	DisplayName string
	AssetIDs    []string
	JobSites    []string
	Sources     []string
}

// AddAsset records an asset assignment, keeping AssetIDs sorted and unique.
func (d *Driver) AddAsset(assetID string) {
	d.AssetIDs = insertSorted(d.AssetIDs, assetID)
}

// AddJobSite records a job site, keeping JobSites sorted and unique.
func (d *Driver) AddJobSite(site string) {
	if site == "" {
		return
	}
	d.JobSites = insertSorted(d.JobSites, site)
}

// AddSource tags the driver with the source file it was seen in.
func (d *Driver) AddSource(source string) {
	d.Sources = insertSorted(d.Sources, source)
}

// PrimaryJobSite returns the first job site, or empty when none is known.
func (d *Driver) PrimaryJobSite() string {
	if len(d.JobSites) == 0 {
		return ""
	}
	return d.JobSites[0]
}

func insertSorted(list []string, v string) []string {
	if v == "" {
		return list
	}
	i := sort.SearchStrings(list, v)
	if i < len(list) && list[i] == v {
		return list
	}
	list = append(list, "")
	copy(list[i+1:], list[i:])
	list[i] = v
	return list
}
