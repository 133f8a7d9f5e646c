// Package domain models deep-layer-mean (DLM) steering-flow samples along the
// southeastern U.S. coastline and the tropical cyclones that contaminate them.
//
// # Data Source
//
// Wind speeds come from an ERA-Interim derived archive: the u and v winds at
// ten pressure levels (1000 to 100 hPa) are collapsed into one weighted deep
// layer mean per grid point and time, and the speed magnitude is kept. The
// archive holds three parallel arrays:
//
//	loc    [N][2]float  longitude, latitude (decimal degrees, west negative)
//	mydate [T]float     serial day numbers (days since 1899-12-30 00Z)
//	ts     [N][T]float  speed in m/s, sign irrelevant
//
// # Season Layout
//
// Only the Atlantic hurricane season is archived. Every season holds exactly
// 732 six-hourly samples, May 30 0000Z through November 28 1800Z, so a global
// time index decomposes as:
//
//	season = index / 732   (season 0 = 1979)
//	offset = index % 732   (slot within the season)
//
// Calendar buckets are fixed offset ranges within a season:
//
//	June (incl. May 30-31)  [0, 128)
//	July                    [128, 252)
//	August                  [252, 376)
//	September               [376, 496)
//	October                 [496, 620)
//	November (1-28)         [620, 732)
//
// Early season is [0, 252), mid season [252, 496), late season [496, 732).
//
// # Best Track
//
// Cyclone positions come from HURDAT2 records. Only synoptic fixes (0000,
// 0600, 1200, 1800Z) with status TS or HU inside the season window are kept.
// Longitudes are stored as degrees west in the source and converted to
// signed degrees east on parse. Wind radii are nautical miles of the 34 kt
// wind field per quadrant, -999 when not analysed.
//
// # Missing Samples
//
// A sample is missing when it is NaN. Missing samples are produced by the
// contamination filter and are skipped by every statistic downstream.
package domain
