// This file is part of Teensytrace.
//
// Teensytrace is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Teensytrace is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Teensytrace.  If not, see <https://www.gnu.org/licenses/>.

// Package arm implements the ARMv7-M Thumb instruction stream emulator:
// registers, flags, the IT-block state machine, memory-mapped I/O, the
// two-level Thumb decoder, and per-mnemonic execution.
package arm

// registerNames maps the small closed set of peripheral register addresses
// this firmware is known to touch to their symbolic names, for trace
// annotation only. Addresses inside the Private Peripheral Bus range that
// aren't in this table still resolve to a generic PPB label; everything
// else resolves to the empty string.
var registerNames = map[uint32]string{
	0x40020000: "FTFL_FSTAT",
	0x40020001: "FTFL_FCNFG",
	0x40020002: "FTFL_FSEC",
	0x40020003: "FTFL_FOPT",
	0x40020004: "FTFL_FCCOB3",
	0x40020005: "FTFL_FCCOB2",
	0x40020006: "FTFL_FCCOB1",
	0x40020007: "FTFL_FCCOB0",
	0x40020008: "FTFL_FCCOB7",
	0x40020009: "FTFL_FCCOB6",
	0x4002000A: "FTFL_FCCOB5",
	0x4002000B: "FTFL_FCCOB4",
	0x4002000C: "FTFL_FCCOBB",
	0x4002000D: "FTFL_FCCOBA",
	0x4002000E: "FTFL_FCCOB9",
	0x4002000F: "FTFL_FCCOB8",
	0x40020010: "FTFL_FPROT3",
	0x40020011: "FTFL_FPROT2",
	0x40020012: "FTFL_FPROT1",
	0x40020013: "FTFL_FPROT0",
	0x40020016: "FTFL_FEPROT",
	0x40020017: "FTFL_FDPROT",
	0x40038000: "FTM0_SC",
	0x40038004: "FTM0_CNT",
	0x40038008: "FTM0_MOD",
	0x4003800C: "FTM0_C0SC",
	0x40038010: "FTM0_C0V",
	0x40038014: "FTM0_C1SC",
	0x40038018: "FTM0_C1V",
	0x4003801C: "FTM0_C2SC",
	0x40038020: "FTM0_C2V",
	0x40038024: "FTM0_C3SC",
	0x40038028: "FTM0_C3V",
	0x4003802C: "FTM0_C4SC",
	0x40038030: "FTM0_C4V",
	0x40038034: "FTM0_C5SC",
	0x40038038: "FTM0_C5V",
	0x4003803C: "FTM0_C6SC",
	0x40038040: "FTM0_C6V",
	0x40038044: "FTM0_C7SC",
	0x40038048: "FTM0_C7V",
	0x4003804C: "FTM0_CTNIN",
	0x40038050: "FTM0_STATUS",
	0x40038054: "FTM0_MODE",
	0x40039000: "FTM1_SC",
	0x40039004: "FTM1_CNT",
	0x40039008: "FTM1_MOD",
	0x4003900C: "FTM1_C0SC",
	0x40039010: "FTM1_C0V",
	0x40039014: "FTM1_C1SC",
	0x40039018: "FTM1_C1V",
	0x4003901C: "FTM1_C2SC",
	0x40039020: "FTM1_C2V",
	0x40039024: "FTM1_C3SC",
	0x40039028: "FTM1_C3V",
	0x4003902C: "FTM1_C4SC",
	0x40039030: "FTM1_C4V",
	0x40039034: "FTM1_C5SC",
	0x40039038: "FTM1_C5V",
	0x4003903C: "FTM1_C6SC",
	0x40039040: "FTM1_C6V",
	0x40039044: "FTM1_C7SC",
	0x40039048: "FTM1_C7V",
	0x4003904C: "FTM1_CTNIN",
	0x40039050: "FTM1_STATUS",
	0x40039054: "FTM1_MODE",
	0x4003B000: "ADC0_SC1A",
	0x4003B004: "ADC0_SC1B",
	0x4003B008: "ADC0_CFG1",
	0x4003B00C: "ADC0_CFG2",
	0x4003B010: "ADC0_RA",
	0x4003B014: "ADC0_RB",
	0x4003B018: "ADC0_CV1",
	0x4003B01C: "ADC0_CV2",
	0x4003B020: "ADC0_SC2",
	0x4003B024: "ADC0_SC3",
	0x4003B028: "ADC0_OFS",
	0x4003D010: "RTC_CR",
	0x4003D014: "RTC_SR",
	0x4003D018: "RTC_LR",
	0x40047000: "SIM_SOPT1",
	0x40047004: "SIM_SOPT1CFG",
	0x40048004: "SIM_SOPT2",
	0x4004800C: "SIM_SOPT4",
	0x40048010: "SIM_SOPT5",
	0x40048018: "SIM_SOPT7",
	0x40048024: "SIM_SDID",
	0x40048028: "SIM_SCGC1",
	0x4004802C: "SIM_SCGC2",
	0x40048030: "SIM_SCGC3",
	0x40048034: "SIM_SCGC4",
	0x40048038: "SIM_SCGC5",
	0x4004803C: "SIM_SCGC6",
	0x40048040: "SIM_SCGC7",
	0x40048044: "SIM_CLKDIV1",
	0x40048048: "SIM_CLKDIV2",
	0x4004804C: "SIM_FCFG1",
	0x40048050: "SIM_FCFG2",
	0x40052000: "WDOG_STCTRLH",
	0x4005200E: "WDOG_UNLOCK",
	0x40064000: "MCG_C1",
	0x40064001: "MCG_C2",
	0x40064002: "MCG_C3",
	0x40064003: "MCG_C4",
	0x40064004: "MCG_C5",
	0x40064005: "MCG_C6",
	0x40064006: "MCG_S",
	0x40065000: "OSC_CR",
	0x40072000: "USB0_PERID",
	0x40072004: "USB0_IDCOMP",
	0x40072008: "USB0_REV",
	0x4007200C: "USB0_ADDINFO",
	0x40072010: "USB0_OTGISTAT",
	0x40072014: "USB0_OTGICR",
	0x40072018: "USB0_OTGSTAT",
	0x40072108: "USB0_CONTROL",
	0x4007210C: "USB0_USBTRC0",
	0x40072114: "USB0_USBFRMADJUST",
	0x40074000: "VREF_TRM",
	0x40074001: "VREF_SC",
	0x4007D000: "PMC_LVDSC1",
	0x4007D001: "PMC_LVDSC2",
	0x4007D002: "PMC_REGSC",
	0x400B8000: "FTM2_SC",
	0x400B8004: "FTM2_CNT",
	0x400B8008: "FTM2_MOD",
	0x400B800C: "FTM2_C0SC",
	0x400B8010: "FTM2_C0V",
	0x400B8014: "FTM2_C1SC",
	0x400B8018: "FTM2_C1V",
	0x400B801C: "FTM2_C2SC",
	0x400B8020: "FTM2_C2V",
	0x400B8024: "FTM2_C3SC",
	0x400B8028: "FTM2_C3V",
	0x400B802C: "FTM2_C4SC",
	0x400B8030: "FTM2_C4V",
	0x400B8034: "FTM2_C5SC",
	0x400B8038: "FTM2_C5V",
	0x400B803C: "FTM2_C6SC",
	0x400B8040: "FTM2_C6V",
	0x400B8044: "FTM2_C7SC",
	0x400B8048: "FTM2_C7V",
	0x400B804C: "FTM2_CTNIN",
	0x400B8050: "FTM2_STATUS",
	0x400B8054: "FTM2_MODE",
	0x400BB000: "ADC1_SC1A",
	0x400BB004: "ADC1_SC1B",
	0x400BB008: "ADC1_CFG1",
	0x400BB00C: "ADC1_CFG2",
	0x400BB010: "ADC1_RA",
	0x400BB014: "ADC1_RB",
	0x400BB018: "ADC1_CV1",
	0x400BB01C: "ADC1_CV2",
	0x400BB020: "ADC1_SC2",
	0x400BB024: "ADC1_SC3",
	0x400BB028: "ADC1_OFS",
	0x400BB02C: "ADC1_PG",
	0x400BB030: "ADC1_MG",
	0xE000E010: "SYST_CSR",
	0xE000E014: "SYST_RVR",
	0xE000E018: "SYST_CVR",
	0xE000E100: "NVIC_ISER0",
	0xE000E104: "NVIC_ISER1",
	0xE000E108: "NVIC_ISER2",
	0xE000E400: "NVIC_IPR0",
	0xE000E404: "NVIC_IPR1",
	0xE000E5EC: "NVIC_IPR123",
	0xE004E004: "ICTR",
	0xE000ED00: "CPUID",
	0xE000ED04: "ICSR",
	0xE000ED08: "VTOR",
}

const ppbLabel = "PPB (Private Peripheral Bus)"

// addressName is the Address Name Table: a total function from a 32-bit
// address to an optional symbolic label used only for trace formatting.
func addressName(addr uint32) string {
	if name, ok := registerNames[addr]; ok {
		return name
	}
	if addr >= ppbBase && addr <= ppbTop {
		return ppbLabel
	}
	return ""
}
